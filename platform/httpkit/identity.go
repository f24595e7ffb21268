// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity describes the authenticated caller. Handlers read user
// information through this interface rather than reaching into the Gin
// context directly.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() uuid.UUID
	// Roles returns the user's assigned roles.
	Roles() []string
	// HasRole reports whether the user holds the given role.
	HasRole(role string) bool
	// IsAuthenticated reports whether a verified token backed the request.
	IsAuthenticated() bool
}

type identity struct {
	userID        uuid.UUID
	roles         []string
	authenticated bool
}

func (i *identity) UserID() uuid.UUID { return i.userID }

func (i *identity) Roles() []string { return i.roles }

func (i *identity) HasRole(role string) bool {
	return slices.Contains(i.roles, role)
}

func (i *identity) IsAuthenticated() bool { return i.authenticated }

// GetIdentity reads the Identity from a Gin context, yielding an
// unauthenticated identity when the auth middleware set nothing.
func GetIdentity(c *gin.Context) Identity {
	rawUserID, userOK := c.Get(ContextUserIDKey)
	if !userOK {
		return &identity{}
	}

	uid, ok := rawUserID.(uuid.UUID)
	if !ok {
		return &identity{}
	}

	var roles []string
	if rawRoles, ok := c.Get(ContextRolesKey); ok {
		roles, _ = rawRoles.([]string)
	}

	return &identity{userID: uid, roles: roles, authenticated: true}
}

// MustGetIdentity reads the Identity from a Gin context and aborts with
// 401 Unauthorized, returning nil, when the caller is not authenticated.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
