package models

import "fmt"

// Entry 注册表中的一个实体
type Entry struct {
	Type string // 资源类型，与表名一致
	New  func() Resource
}

// JoinTable 多对多关联表与拥有它的关联字段
type JoinTable struct {
	Owner interface{}
	Field string
	Model interface{}
}

// Registry 实体注册表，启动时显式构建，顺序固定
type Registry struct {
	entries    []Entry
	byType     map[string]Entry
	joinTables []JoinTable
}

// NewRegistry 构建包含全部实体的注册表
// 顺序即父资源在前、子资源在后，迁移、导出都按此顺序进行
func NewRegistry() *Registry {
	r := &Registry{byType: make(map[string]Entry)}

	r.register(func() Resource { return &DataCenter{} })
	r.register(func() Resource { return &Rack{} })
	r.register(func() Resource { return &Server{} })
	r.register(func() Resource { return &Switch{} })
	r.register(func() Resource { return &Disk{} })
	r.register(func() Resource { return &SwitchPort{} })
	r.register(func() Resource { return &ServerPort{} })
	r.register(func() Resource { return &User{} })
	r.register(func() Resource { return &Role{} })
	r.register(func() Resource { return &CommandAlias{} })
	r.register(func() Resource { return &Domain{} })
	r.register(func() Resource { return &Network{} })
	r.register(func() Resource { return &Tag{} })

	r.joinTables = []JoinTable{
		{Owner: &User{}, Field: "Roles", Model: &UserRoleRelation{}},
		{Owner: &Role{}, Field: "Users", Model: &UserRoleRelation{}},
		{Owner: &Role{}, Field: "Servers", Model: &RoleServerRelation{}},
		{Owner: &Server{}, Field: "Roles", Model: &RoleServerRelation{}},
		{Owner: &Role{}, Field: "CommandAliases", Model: &RoleCommandRelation{}},
		{Owner: &CommandAlias{}, Field: "Roles", Model: &RoleCommandRelation{}},
	}
	return r
}

func (r *Registry) register(newFn func() Resource) {
	typ := newFn().TableName()
	if _, ok := r.byType[typ]; ok {
		panic(fmt.Sprintf("resource type %s registered twice", typ))
	}
	e := Entry{Type: typ, New: newFn}
	r.entries = append(r.entries, e)
	r.byType[typ] = e
}

// Entries 按注册顺序返回全部实体
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Lookup 按资源类型查找
func (r *Registry) Lookup(typ string) (Entry, bool) {
	e, ok := r.byType[typ]
	return e, ok
}

// JoinTables 返回多对多关联表定义
func (r *Registry) JoinTables() []JoinTable {
	out := make([]JoinTable, len(r.joinTables))
	copy(out, r.joinTables)
	return out
}

// Models 返回用于建表的全部模型，实体在前，关联表在后
func (r *Registry) Models() []interface{} {
	out := make([]interface{}, 0, len(r.entries)+3)
	for _, e := range r.entries {
		out = append(out, e.New())
	}
	out = append(out, &UserRoleRelation{}, &RoleServerRelation{}, &RoleCommandRelation{})
	return out
}
