package models

// Resource 所有持久化实体的公共接口
type Resource interface {
	TableName() string
	GetUUID() string
}

// Parent 拥有子资源的实体
// SubResourceAssociations 返回子资源名称到关联字段名的映射，供存储层预加载
// SubResources 返回已加载的子资源集合，修改返回值不会影响数据库
type Parent interface {
	Resource
	SubResourceAssociations() map[string]string
	SubResources() map[string]interface{}
}

// JSONCarrier 含 JSON 列的实体，key 为列名
type JSONCarrier interface {
	Resource
	JSONColumns() map[string]*JSONDict
}
