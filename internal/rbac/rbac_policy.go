package rbac

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

const (
	ResourceProfile    = "profile"
	ResourceEmployee   = "employee"
	ResourceAttendance = "attendance"
	ResourceLeave      = "leave"
	ResourceReport     = "report"
)

const (
	ActionRead      = "read"
	ActionReadOwn   = "read_own"
	ActionReadAll   = "read_all"
	ActionCreate    = "create"
	ActionUpdateOwn = "update_own"
	ActionDelete    = "delete"
	ActionCheckIn   = "checkin"
	ActionCheckOut  = "checkout"
	ActionRequest   = "request"
	ActionCancel    = "cancel"
	ActionDecide    = "decide"
	ActionAny       = "*"
)

// DefaultPolicies grants the employee baseline. Admin inherits it through
// DefaultGroupings and adds the rest.
var DefaultPolicies = [][]string{
	{RoleEmployee, ResourceProfile, ActionRead},
	{RoleEmployee, ResourceEmployee, ActionReadOwn},
	{RoleEmployee, ResourceEmployee, ActionUpdateOwn},
	{RoleEmployee, ResourceAttendance, ActionCheckIn},
	{RoleEmployee, ResourceAttendance, ActionCheckOut},
	{RoleEmployee, ResourceAttendance, ActionReadOwn},
	{RoleEmployee, ResourceLeave, ActionRequest},
	{RoleEmployee, ResourceLeave, ActionReadOwn},
	{RoleEmployee, ResourceLeave, ActionCancel},

	{RoleAdmin, ResourceEmployee, ActionReadAll},
	{RoleAdmin, ResourceEmployee, ActionCreate},
	{RoleAdmin, ResourceEmployee, ActionDelete},
	{RoleAdmin, ResourceAttendance, ActionReadAll},
	{RoleAdmin, ResourceLeave, ActionReadAll},
	{RoleAdmin, ResourceLeave, ActionDecide},
	{RoleAdmin, ResourceReport, ActionAny},
}

var DefaultGroupings = [][]string{
	{RoleAdmin, RoleEmployee},
}
