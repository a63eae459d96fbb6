package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Kind classifies an error for the transport layer.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindAuthorization Kind = "authorization"
)

// Error is the typed error every service returns for expected failures.
// Two errors match under errors.Is when their codes match.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrUnauthenticated = &Error{KindAuthorization, "auth.unauthenticated", "authentication required"}
	ErrForbidden       = &Error{KindAuthorization, "auth.forbidden", "role is not allowed to perform this action"}
	ErrBadCredentials  = &Error{KindAuthorization, "auth.invalidCredentials", "invalid username or password"}

	ErrRoomNotFound     = &Error{KindNotFound, "room.notFound", "room not found"}
	ErrRoomTypeNotFound = &Error{KindNotFound, "roomType.notFound", "room type not found"}
	ErrBookingNotFound  = &Error{KindNotFound, "booking.notFound", "booking not found"}
	ErrFoodItemNotFound = &Error{KindNotFound, "foodItem.notFound", "food item not found"}
	ErrOrderNotFound    = &Error{KindNotFound, "order.notFound", "food order not found"}
	ErrInvoiceNotFound  = &Error{KindNotFound, "invoice.notFound", "invoice not found"}
	ErrPaymentNotFound  = &Error{KindNotFound, "payment.notFound", "payment not found"}
	ErrStaffNotFound    = &Error{KindNotFound, "staff.notFound", "staff member not found"}
	ErrRoleNotFound     = &Error{KindNotFound, "role.notFound", "role not found"}

	ErrRoomNotAvailable  = &Error{KindConflict, "room.notAvailable", "room is not available"}
	ErrRoomInUse         = &Error{KindConflict, "room.inUse", "room is referenced by an active booking"}
	ErrRoomHasHistory    = &Error{KindConflict, "room.hasHistory", "room is referenced by past bookings"}
	ErrRoomNumberTaken   = &Error{KindConflict, "room.duplicateNumber", "room number already exists"}
	ErrRoomTypeInUse     = &Error{KindConflict, "roomType.inUse", "room type is assigned to rooms"}
	ErrBookingNotActive  = &Error{KindConflict, "booking.notActive", "booking is not active"}
	ErrBookingHasBilling = &Error{KindConflict, "booking.hasBilling", "booking has invoices or payments"}
	ErrItemDisabled      = &Error{KindConflict, "foodItem.disabled", "food item is disabled"}
	ErrAlreadyInvoiced   = &Error{KindConflict, "order.alreadyInvoiced", "food order is already invoiced"}
	ErrNothingToSettle   = &Error{KindConflict, "settlement.nothingToSettle", "no unbilled orders to settle"}
	ErrAlreadySettled    = &Error{KindConflict, "settlement.alreadySettled", "booking already has a room invoice"}
	ErrUnbilledOrders    = &Error{KindConflict, "settlement.unbilledOrders", "booking has unbilled food orders; settle the kitchen bill first"}
	ErrUsernameTaken     = &Error{KindConflict, "staff.duplicateUsername", "username already exists"}
)

// Validation builds a validation error for a malformed or missing input.
func Validation(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsError unwraps err to a service error when there is one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports the kind of err, or "" for unexpected errors.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return ""
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate") || strings.Contains(lower, "unique constraint")
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1451 || merr.Number == 1452
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "foreign key")
}
