// util/validation_util_test.go
package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revguard/api/model"
	"github.com/revguard/api/util"
)

func TestValidatePassword(t *testing.T) {
	v := util.NewValidationUtil()

	assert.NoError(t, v.ValidatePassword("Operate1234"))

	assert.Error(t, v.ValidatePassword("Sh0rt"))       // too short
	assert.Error(t, v.ValidatePassword("alllower123")) // no upper
	assert.Error(t, v.ValidatePassword("ALLUPPER123")) // no lower
	assert.Error(t, v.ValidatePassword("NoDigitsHere"))
}

func TestValidateUser(t *testing.T) {
	v := util.NewValidationUtil()

	valid := model.User{Email: "ops@example.com", Username: "ops", Role: model.RoleOperations}
	assert.NoError(t, v.ValidateUser(valid))

	missing := valid
	missing.Email = ""
	assert.Error(t, v.ValidateUser(missing))

	notAnAddress := valid
	notAnAddress.Email = "ops.example.com"
	assert.Error(t, v.ValidateUser(notAnAddress))

	badRole := valid
	badRole.Role = model.UserRole(42)
	assert.Error(t, v.ValidateUser(badRole))
}

func TestValidateRole(t *testing.T) {
	v := util.NewValidationUtil()

	assert.NoError(t, v.ValidateRole(model.Role{Code: "AUDITOR", Name: "Auditor"}))
	assert.Error(t, v.ValidateRole(model.Role{Code: "auditor", Name: "Auditor"}))
	assert.Error(t, v.ValidateRole(model.Role{Code: "AUDITOR"}))
}
