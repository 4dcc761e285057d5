package services

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"foxnut/internal/models"
)

// Node 资源树节点，子资源按 sub_resources 标签分组
type Node struct {
	Type     string
	UUID     string
	Name     string
	Deleted  bool
	Children []Group
}

// Group 同一标签下的子资源
type Group struct {
	Label string
	Nodes []*Node
}

// Tree 从 root 开始沿 sub_resources 向下展开，depth 限制展开层数
// 服务器网口与交换机端口互为子资源，已展开过的节点不再重复展开
func (s *InventoryService) Tree(ctx context.Context, root models.Parent, depth int) (*Node, error) {
	return s.expand(ctx, root, depth, make(map[string]bool))
}

func (s *InventoryService) expand(ctx context.Context, r models.Resource, depth int, seen map[string]bool) (*Node, error) {
	node := &Node{
		Type: r.TableName(),
		UUID: r.GetUUID(),
		Name: resourceName(r),
	}
	if d, ok := r.(interface{ IsDeleted() bool }); ok {
		node.Deleted = d.IsDeleted()
	}

	key := node.Type + "/" + node.UUID
	p, ok := r.(models.Parent)
	if !ok || depth <= 0 || seen[key] {
		return node, nil
	}
	seen[key] = true

	subs, err := s.LoadSubResources(ctx, p)
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(subs))
	for label := range subs {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		group := Group{Label: label}
		for _, child := range toResources(subs[label]) {
			if seen[child.TableName()+"/"+child.GetUUID()] {
				continue
			}
			n, err := s.expand(ctx, child, depth-1, seen)
			if err != nil {
				return nil, err
			}
			group.Nodes = append(group.Nodes, n)
		}
		node.Children = append(node.Children, group)
	}
	return node, nil
}

// Print 以缩进文本输出资源树
func (n *Node) Print(w io.Writer) error {
	return n.print(w, 0)
}

func (n *Node) print(w io.Writer, level int) error {
	indent := strings.Repeat("  ", level)
	mark := ""
	if n.Deleted {
		mark = " (deleted)"
	}
	if _, err := fmt.Fprintf(w, "%s%s %s %s%s\n", indent, n.Type, n.Name, n.UUID, mark); err != nil {
		return err
	}
	for _, g := range n.Children {
		if len(g.Nodes) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s  [%s]\n", indent, g.Label); err != nil {
			return err
		}
		for _, c := range g.Nodes {
			if err := c.print(w, level+2); err != nil {
				return err
			}
		}
	}
	return nil
}

// toResources 将子资源集合（切片或单个指针）展开为资源列表
func toResources(v interface{}) []models.Resource {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		out := make([]models.Resource, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if r, ok := rv.Index(i).Addr().Interface().(models.Resource); ok {
				out = append(out, r)
			}
		}
		return out
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		if r, ok := rv.Interface().(models.Resource); ok {
			return []models.Resource{r}
		}
	}
	return nil
}

// resourceName 取最外层的 Name 字段，交换机、用户等覆盖了基础字段
func resourceName(r models.Resource) string {
	rv := reflect.Indirect(reflect.ValueOf(r))
	if rv.Kind() != reflect.Struct {
		return ""
	}
	f := rv.FieldByName("Name")
	if !f.IsValid() || f.Kind() != reflect.String {
		return ""
	}
	return f.String()
}
