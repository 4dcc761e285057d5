package models

import (
	"testing"

	apperrors "foxnut/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskTypeEnum(t *testing.T) {
	tests := []struct {
		diskType DiskType
		wantErr  error
	}{
		{DiskTypeSSD, nil},
		{DiskTypeHDD, nil},
		{"", nil},
		{"NVME", apperrors.ErrInvalidEnumValue},
		{"ssd", apperrors.ErrInvalidEnumValue},
	}

	for _, tt := range tests {
		t.Run(string(tt.diskType), func(t *testing.T) {
			err := (&Disk{DiskType: tt.diskType}).BeforeSave(nil)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestServerEnums(t *testing.T) {
	s := &Server{State: ServerStateDeployed, BuildState: BuildStateUnbuild}
	require.NoError(t, s.BeforeSave(nil))

	s.State = "retired"
	assert.ErrorIs(t, s.BeforeSave(nil), apperrors.ErrInvalidEnumValue)

	s.State = ServerStateNull
	s.BuildState = "done"
	assert.ErrorIs(t, s.BeforeSave(nil), apperrors.ErrInvalidEnumValue)

	s.BuildState = ""
	s.Status = "broken"
	assert.ErrorIs(t, s.BeforeSave(nil), apperrors.ErrInvalidEnumValue)
}

func TestServerStateOrder(t *testing.T) {
	next, ok := ServerStateNull.Next()
	require.True(t, ok)
	assert.Equal(t, ServerStateShelving, next)

	next, ok = ServerStateTesting.Next()
	require.True(t, ok)
	assert.Equal(t, ServerStateProduct, next)

	_, ok = ServerStateProduct.Next()
	assert.False(t, ok)

	assert.True(t, ServerStateBuilded.Valid())
	assert.False(t, ServerState("built").Valid())
}

func TestRequiredReferences(t *testing.T) {
	assert.ErrorIs(t, (&ServerPort{}).BeforeSave(nil), apperrors.ErrMissingRequiredReference)
	assert.ErrorIs(t, (&SwitchPort{}).BeforeSave(nil), apperrors.ErrMissingRequiredReference)
	assert.ErrorIs(t, (&Rack{}).BeforeSave(nil), apperrors.ErrMissingRequiredReference)

	assert.NoError(t, (&ServerPort{ServerUUID: "s-1"}).BeforeSave(nil))
	assert.NoError(t, (&Rack{DCUUID: "dc-1"}).BeforeSave(nil))
}

func TestRequiredFields(t *testing.T) {
	assert.ErrorIs(t, (&User{}).BeforeSave(nil), apperrors.ErrInvalidField)
	assert.ErrorIs(t, (&Switch{}).BeforeSave(nil), apperrors.ErrInvalidField)
	assert.ErrorIs(t, (&CommandAlias{Name: "reboot"}).BeforeSave(nil), apperrors.ErrInvalidField)
	assert.ErrorIs(t, (&User{Name: "ops", UserType: "local"}).BeforeSave(nil), apperrors.ErrInvalidEnumValue)
}

func TestNameNormalization(t *testing.T) {
	role := &Role{Name: "prod-role"}
	require.NoError(t, role.BeforeSave(nil))
	assert.Equal(t, "PROD-ROLE", role.Name)

	alias := &CommandAlias{Name: "prod-role", Commands: "/sbin/reboot"}
	require.NoError(t, alias.BeforeSave(nil))
	assert.Equal(t, "PROD-ROLE", alias.Name)
}

func TestBeforeCreateDefaults(t *testing.T) {
	disk := &Disk{}
	require.NoError(t, disk.BeforeCreate(nil))
	assert.Len(t, disk.UUID, 36)
	assert.Equal(t, ProductStatusActive, disk.Status)

	dc := &DataCenter{VenusBase: VenusBase{UUID: "fixed"}}
	require.NoError(t, dc.BeforeCreate(nil))
	assert.Equal(t, "fixed", dc.UUID)
}

func TestSubResources(t *testing.T) {
	dc := &DataCenter{Racks: []Rack{{Height: 42}, {Height: 48}}}
	subs := dc.SubResources()
	assert.Len(t, subs["racks"], 2)

	rack := &Rack{}
	assert.ElementsMatch(t, []string{"servers", "switches"}, keys(rack.SubResources()))

	port := &ServerPort{}
	assert.Nil(t, port.SubResources()["switch_port"].(*SwitchPort))

	var parents = []Parent{&DataCenter{}, &Rack{}, &Server{}, &Switch{}, &ServerPort{}, &SwitchPort{}, &User{}, &Role{}, &Domain{}}
	for _, p := range parents {
		assoc := p.SubResourceAssociations()
		assert.ElementsMatch(t, keys(p.SubResources()), mapKeys(assoc), p.TableName())
	}
}

func TestUserPassword(t *testing.T) {
	u := &User{Name: "alice", UserType: UserTypeNormal}
	require.NoError(t, u.SetPassword("s3cret"))
	assert.NotEqual(t, "s3cret", u.Password)
	assert.True(t, u.CheckPassword("s3cret"))
	assert.False(t, u.CheckPassword("wrong"))

	u.UserType = UserTypeLDAP
	assert.False(t, u.CheckPassword("s3cret"))

	assert.True(t, u.Active())
	inactive := false
	u.IsActive = &inactive
	assert.False(t, u.Active())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	var types []string
	for _, e := range reg.Entries() {
		types = append(types, e.Type)
		assert.Equal(t, e.Type, e.New().TableName())
	}
	assert.Equal(t, []string{
		"datacenters", "racks", "servers", "switches", "disks", "switch_ports",
		"server_ports", "users", "roles", "command_aliases", "domains", "networks", "tags",
	}, types)

	e, ok := reg.Lookup("servers")
	require.True(t, ok)
	assert.IsType(t, &Server{}, e.New())

	_, ok = reg.Lookup("hosts")
	assert.False(t, ok)

	assert.Len(t, reg.Models(), 16)
	assert.Len(t, reg.JoinTables(), 6)
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func mapKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
