package models

// ProductStatus 硬件设备状态
type ProductStatus string

const (
	ProductStatusActive ProductStatus = "active"
	ProductStatusError  ProductStatus = "error"
)

// ServerState 服务器生命周期状态
type ServerState string

const (
	ServerStateNull      ServerState = "null"
	ServerStateShelving  ServerState = "shelving"
	ServerStateShelved   ServerState = "shelved"
	ServerStateBuilding  ServerState = "building"
	ServerStateBuilded   ServerState = "builded"
	ServerStateChecking  ServerState = "checking"
	ServerStateChecked   ServerState = "checked"
	ServerStateDeploying ServerState = "deploying"
	ServerStateDeployed  ServerState = "deployed"
	ServerStateTesting   ServerState = "testing"
	ServerStateProduct   ServerState = "product"
)

// ServerStates 按生命周期顺序排列；存储层不校验状态迁移顺序
var ServerStates = []ServerState{
	ServerStateNull,
	ServerStateShelving,
	ServerStateShelved,
	ServerStateBuilding,
	ServerStateBuilded,
	ServerStateChecking,
	ServerStateChecked,
	ServerStateDeploying,
	ServerStateDeployed,
	ServerStateTesting,
	ServerStateProduct,
}

// Valid 是否为已定义的状态
func (s ServerState) Valid() bool {
	for _, v := range ServerStates {
		if v == s {
			return true
		}
	}
	return false
}

// Next 返回生命周期中的下一个状态，product 之后没有后继
func (s ServerState) Next() (ServerState, bool) {
	for i, v := range ServerStates {
		if v == s && i+1 < len(ServerStates) {
			return ServerStates[i+1], true
		}
	}
	return "", false
}

// BuildState 装机状态
type BuildState string

const (
	BuildStateBuilding BuildState = "building"
	BuildStateUnbuild  BuildState = "unbuild"
	BuildStateAbsent   BuildState = "absent"
)

// DiskType 磁盘介质类型
type DiskType string

const (
	DiskTypeSSD DiskType = "SSD"
	DiskTypeHDD DiskType = "HDD"
)

// UserType 用户来源
type UserType string

const (
	UserTypeLDAP   UserType = "ldap"
	UserTypeNormal UserType = "normal"
)

// DomainState 业务域部署状态
type DomainState string

const (
	DomainStateNull      DomainState = "null"
	DomainStateDeploying DomainState = "deploying"
	DomainStateTesting   DomainState = "testing"
	DomainStateProduct   DomainState = "product"
)
