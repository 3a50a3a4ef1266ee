// Package access содержит статическую таблицу прав ролей.
//
// Таблица не хранится в базе и не меняется во время работы: admin обладает
// любым правом, остальные роли: строго перечисленным набором.
package access

// Права, которые проверяет приложение.
const (
	ManageMembers    = "manage_members"
	ViewMembers      = "view_members"
	ViewReports      = "view_reports"
	ManageAttendance = "manage_attendance"
	RecordAttendance = "record_attendance"
	ManageUsers      = "manage_users"
)

// Роли сотрудников.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleEmployee   = "employee"
)

var grants = map[string][]string{
	RoleSupervisor: {ManageMembers, ViewReports, ManageAttendance},
	RoleEmployee:   {ViewMembers, RecordAttendance},
}

// HasPermission сообщает, обладает ли роль указанным правом.
// Неизвестная роль не обладает ничем.
func HasPermission(role, permission string) bool {
	if role == RoleAdmin {
		return true
	}
	for _, p := range grants[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAny сообщает, обладает ли роль хотя бы одним из прав.
func HasAny(role string, permissions ...string) bool {
	for _, p := range permissions {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}
