package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"yamdb/proj/internal/domain/models"
)

var (
	anonymous = models.AnonymousUser
	plainUser = &models.User{ID: 1, Username: "reader", Role: models.RoleUser}
	moderator = &models.User{ID: 2, Username: "mod", Role: models.RoleModerator}
	admin     = &models.User{ID: 3, Username: "boss", Role: models.RoleAdmin, Staff: true}
	// admin role without the staff flag must not be treated as admin
	fakeAdmin = &models.User{ID: 4, Username: "pretender", Role: models.RoleAdmin}
)

func TestAuthorOrReadOnly(t *testing.T) {
	p := AuthorOrReadOnly{}
	assert.True(t, p.HasPermission(anonymous, false))
	assert.True(t, p.HasPermission(anonymous, true))
	assert.True(t, p.HasObjectPermission(anonymous, false, 1))
	assert.False(t, p.HasObjectPermission(anonymous, true, 1))
	assert.True(t, p.HasObjectPermission(plainUser, true, plainUser.ID))
	assert.False(t, p.HasObjectPermission(plainUser, true, admin.ID))
}

func TestAdminOrReadOnly(t *testing.T) {
	p := AdminOrReadOnly{}
	for _, u := range []*models.User{anonymous, plainUser, moderator, fakeAdmin} {
		assert.True(t, p.HasPermission(u, false), u.Username)
		assert.False(t, p.HasPermission(u, true), u.Username)
		assert.False(t, p.HasObjectPermission(u, true, u.ID), u.Username)
	}
	assert.True(t, p.HasPermission(admin, true))
	assert.True(t, p.HasObjectPermission(admin, true, plainUser.ID))
}

func TestAuthorOrStaffOrReadOnly(t *testing.T) {
	p := AuthorOrStaffOrReadOnly{}
	// unauthenticated writes are rejected already at the collection level
	assert.False(t, p.HasPermission(anonymous, true))
	assert.True(t, p.HasPermission(anonymous, false))
	assert.True(t, p.HasPermission(plainUser, true))

	assert.True(t, p.HasObjectPermission(plainUser, true, plainUser.ID))
	assert.False(t, p.HasObjectPermission(plainUser, true, moderator.ID))
	assert.True(t, p.HasObjectPermission(moderator, true, plainUser.ID))
	assert.True(t, p.HasObjectPermission(admin, true, plainUser.ID))
	assert.False(t, p.HasObjectPermission(fakeAdmin, true, plainUser.ID))
	assert.True(t, p.HasObjectPermission(anonymous, false, plainUser.ID))
}

func TestAdminOnly(t *testing.T) {
	p := AdminOnly{}
	assert.False(t, p.HasPermission(anonymous, false))
	assert.False(t, p.HasPermission(plainUser, false))
	assert.False(t, p.HasPermission(moderator, true))
	assert.False(t, p.HasPermission(fakeAdmin, false))
	assert.True(t, p.HasPermission(admin, false))
	assert.True(t, p.HasObjectPermission(admin, true, plainUser.ID))
}
