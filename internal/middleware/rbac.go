package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/eduhub/eduhub-api/internal/models"
	appErrors "github.com/eduhub/eduhub-api/pkg/errors"
	"github.com/eduhub/eduhub-api/pkg/response"
)

// Permission names one operation a role may perform. Route handlers
// declare the permission they need; the role grants live in one table
// below instead of being scattered across handlers.
type Permission string

const (
	PermManageAttendance  Permission = "attendance:manage"
	PermViewGradebook     Permission = "gradebook:view"
	PermManageAssignments Permission = "assignments:manage"
	PermViewStudents      Permission = "students:view"
	PermSendMessages      Permission = "messages:send"
	PermViewDirectory     Permission = "directory:view"
)

var rolePermissions = map[models.UserRole]map[Permission]struct{}{
	models.RoleAdmin: {
		PermManageAttendance:  {},
		PermViewGradebook:     {},
		PermManageAssignments: {},
		PermViewStudents:      {},
		PermSendMessages:      {},
		PermViewDirectory:     {},
	},
	models.RoleTeacher: {
		PermManageAttendance:  {},
		PermViewGradebook:     {},
		PermManageAssignments: {},
		PermViewStudents:      {},
		PermSendMessages:      {},
		PermViewDirectory:     {},
	},
	models.RoleParent: {
		PermSendMessages:  {},
		PermViewDirectory: {},
	},
	models.RoleStudent: {
		PermSendMessages:  {},
		PermViewDirectory: {},
	},
}

// HasPermission reports whether the role grants the permission.
func HasPermission(role models.UserRole, perm Permission) bool {
	grants, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = grants[perm]
	return ok
}

// RequirePermission blocks requests whose authenticated role lacks the
// permission. It must run after JWT.
func RequirePermission(perm Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := claimsValue.(*models.JWTClaims)
		if !ok || !HasPermission(claims.Role, perm) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
