package models

type RolePermission struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	RoleID     uint   `gorm:"not null;index:idx_role_permission,unique" json:"roleId"`
	Permission string `gorm:"size:150;not null;index:idx_role_permission,unique" json:"permission"`
}

// Permissions are "<module>.<action>" strings.
const (
	PermBookingView   = "bookingManagement.view"
	PermBookingCreate = "bookingManagement.create"
	PermBookingEdit   = "bookingManagement.edit"
	PermBookingDelete = "bookingManagement.delete"

	PermRoomView   = "roomManagement.view"
	PermRoomCreate = "roomManagement.create"
	PermRoomEdit   = "roomManagement.edit"
	PermRoomDelete = "roomManagement.delete"

	PermOrderView   = "foodOrders.view"
	PermOrderCreate = "foodOrders.create"
	PermOrderDelete = "foodOrders.delete"

	PermMenuView = "menuManagement.view"
	PermMenuEdit = "menuManagement.edit"

	PermBillingView   = "billing.view"
	PermBillingSettle = "billing.settle"
	PermBillingManual = "billing.manual"
	PermBillingDelete = "billing.delete"

	PermPaymentView   = "payments.view"
	PermPaymentRecord = "payments.record"
	PermPaymentEdit   = "payments.edit"

	PermSettingsView = "settings.view"
	PermSettingsEdit = "settings.edit"

	PermRolesView = "rolesAndPermissions.view"
	PermRolesEdit = "rolesAndPermissions.edit"

	PermStaffView   = "staffManagement.view"
	PermStaffCreate = "staffManagement.create"
	PermStaffDelete = "staffManagement.delete"
)

// ActionsByModule lists every known action, grouped for the roles screen.
var ActionsByModule = map[string][]string{
	"bookingManagement":   {"view", "create", "edit", "delete"},
	"roomManagement":      {"view", "create", "edit", "delete"},
	"foodOrders":          {"view", "create", "delete"},
	"menuManagement":      {"view", "edit"},
	"billing":             {"view", "settle", "manual", "delete"},
	"payments":            {"view", "record", "edit"},
	"settings":            {"view", "edit"},
	"rolesAndPermissions": {"view", "edit"},
	"staffManagement":     {"view", "create", "delete"},
}

// AllPermissions flattens ActionsByModule.
func AllPermissions() []string {
	perms := make([]string, 0, 32)
	for module, actions := range ActionsByModule {
		for _, action := range actions {
			perms = append(perms, module+"."+action)
		}
	}
	return perms
}

// DefaultRolePermissions is what a fresh install grants. The owner role always
// receives AllPermissions.
var DefaultRolePermissions = map[string][]string{
	RoleManager: {
		PermBookingView, PermBookingCreate, PermBookingEdit, PermBookingDelete,
		PermRoomView, PermRoomCreate, PermRoomEdit, PermRoomDelete,
		PermOrderView, PermOrderCreate, PermOrderDelete,
		PermMenuView, PermMenuEdit,
		PermBillingView, PermBillingSettle, PermBillingManual, PermBillingDelete,
		PermPaymentView, PermPaymentRecord, PermPaymentEdit,
		PermSettingsView, PermRolesView, PermStaffView,
	},
	RoleReceptionist: {
		PermBookingView, PermBookingCreate, PermBookingEdit,
		PermRoomView,
		PermOrderView, PermOrderCreate, PermOrderDelete,
		PermMenuView,
		PermBillingView, PermBillingSettle,
		PermPaymentView, PermPaymentRecord,
		PermSettingsView,
	},
	RoleChef: {
		PermBookingView,
		PermOrderView, PermOrderCreate,
		PermMenuView, PermMenuEdit,
		PermBillingView, PermBillingSettle,
	},
}
