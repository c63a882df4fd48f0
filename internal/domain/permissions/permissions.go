package permissions

import "yamdb/proj/internal/domain/models"

// Policy gates a request twice: once at the collection level before any
// object is resolved, and once against the resolved object's owner.
type Policy interface {
	// HasPermission is the collection-level check. write is true for any
	// mutating method.
	HasPermission(u *models.User, write bool) bool
	// HasObjectPermission is the object-level check; ownerID is the id of
	// the user owning the resolved object.
	HasObjectPermission(u *models.User, write bool, ownerID int64) bool
}

// AuthorOrReadOnly: anyone reads, only the object's author writes.
type AuthorOrReadOnly struct{}

func (AuthorOrReadOnly) HasPermission(u *models.User, write bool) bool {
	return true
}

func (AuthorOrReadOnly) HasObjectPermission(u *models.User, write bool, ownerID int64) bool {
	if !write {
		return true
	}
	return !u.IsAnonymous() && u.ID == ownerID
}

// AdminOrReadOnly: anyone reads, only staff admins write.
type AdminOrReadOnly struct{}

func (AdminOrReadOnly) HasPermission(u *models.User, write bool) bool {
	return !write || u.IsAdmin()
}

func (AdminOrReadOnly) HasObjectPermission(u *models.User, write bool, ownerID int64) bool {
	return !write || u.IsAdmin()
}

// AuthorOrStaffOrReadOnly: anyone reads; writes require authentication at the
// collection level and author/admin/moderator at the object level.
type AuthorOrStaffOrReadOnly struct{}

func (AuthorOrStaffOrReadOnly) HasPermission(u *models.User, write bool) bool {
	return !write || !u.IsAnonymous()
}

func (AuthorOrStaffOrReadOnly) HasObjectPermission(u *models.User, write bool, ownerID int64) bool {
	if !write {
		return true
	}
	if u.IsAnonymous() {
		return false
	}
	return u.ID == ownerID || u.IsAdmin() || u.IsModerator()
}

// AdminOnly: every method requires a staff admin.
type AdminOnly struct{}

func (AdminOnly) HasPermission(u *models.User, write bool) bool {
	return u.IsAdmin()
}

func (AdminOnly) HasObjectPermission(u *models.User, write bool, ownerID int64) bool {
	return u.IsAdmin()
}
