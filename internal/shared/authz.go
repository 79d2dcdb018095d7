package shared

// Permission names used by route guards. Stored lower-case in the
// permissions table; the RBAC layer normalizes before comparing.
const (
	PermWorkOrderView   = "workorder.view"
	PermWorkOrderCreate = "workorder.create"
	PermWorkOrderEdit   = "workorder.edit"
	PermWorkOrderDelete = "workorder.delete"

	PermWashTxView   = "washtx.view"
	PermWashTxCreate = "washtx.create"
	PermWashTxDelete = "washtx.delete"

	PermReportView   = "report.view"
	PermReportExport = "report.export"

	PermAdminUsers = "admin.users"
	PermAdminRoles = "admin.roles"
)
