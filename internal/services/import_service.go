package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"foxnut/internal/models"
	apperrors "foxnut/pkg/errors"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryDocument 资产导入文件
type InventoryDocument struct {
	DataCenters    []DataCenterDoc   `yaml:"datacenters"`
	Domains        []DomainDoc       `yaml:"domains"`
	CommandAliases []CommandAliasDoc `yaml:"command_aliases"`
	Roles          []RoleDoc         `yaml:"roles"`
	Users          []UserDoc         `yaml:"users"`
}

type DataCenterDoc struct {
	Name     string    `yaml:"name"`
	Location string    `yaml:"location"`
	Comment  string    `yaml:"comment"`
	Racks    []RackDoc `yaml:"racks"`
}

type RackDoc struct {
	Name        string      `yaml:"name"`
	Height      int         `yaml:"height"`
	Electricity int         `yaml:"electricity"`
	RackLimit   int         `yaml:"rack_limit"`
	Switches    []SwitchDoc `yaml:"switches"`
	Servers     []ServerDoc `yaml:"servers"`
}

type SwitchDoc struct {
	Name      string    `yaml:"name"`
	Vendor    string    `yaml:"vendor"`
	Model     string    `yaml:"model"`
	SN        string    `yaml:"sn"`
	RackLayer string    `yaml:"rack_layer"`
	Role      string    `yaml:"role"`
	MgmIP     string    `yaml:"mgm_ip"`
	MgmMac    string    `yaml:"mgm_mac"`
	Ports     []PortDoc `yaml:"ports"`
}

type ServerDoc struct {
	Name        string                 `yaml:"name"`
	Vendor      string                 `yaml:"vendor"`
	Model       string                 `yaml:"model"`
	SN          string                 `yaml:"sn"`
	Domain      string                 `yaml:"domain"`
	CPUModel    string                 `yaml:"cpu_model"`
	CPUCount    int                    `yaml:"cpu_count"`
	MemTotal    int                    `yaml:"mem_total"`
	RaidModel   string                 `yaml:"raid_model"`
	System      string                 `yaml:"system"`
	RackLayer   string                 `yaml:"rack_layer"`
	Role        string                 `yaml:"role"`
	IPMIIP      string                 `yaml:"ipmi_ip"`
	IPMINetmask string                 `yaml:"ipmi_netmask"`
	IPMIGateway string                 `yaml:"ipmi_gateway"`
	MgmIP       string                 `yaml:"mgm_ip"`
	MgmMac      string                 `yaml:"mgm_mac"`
	MgmNetmask  string                 `yaml:"mgm_netmask"`
	MgmGateway  string                 `yaml:"mgm_gateway"`
	State       string                 `yaml:"state"`
	BuildState  string                 `yaml:"build_state"`
	RaidConf    map[string]interface{} `yaml:"raid_conf"`
	Disks       []DiskDoc              `yaml:"disks"`
	Ports       []PortDoc              `yaml:"ports"`
}

type DiskDoc struct {
	Name           string `yaml:"name"`
	Vendor         string `yaml:"vendor"`
	Model          string `yaml:"model"`
	WWN            string `yaml:"wwn"`
	Type           string `yaml:"type"`
	TotalGB        int    `yaml:"total_gb"`
	SupportDiscard string `yaml:"support_discard"`
}

// PortDoc 网口；服务器网口通过 peer: "<交换机名>/<端口名>" 对接交换机端口
type PortDoc struct {
	Name     string `yaml:"name"`
	MacAddr  string `yaml:"mac_addr"`
	IPAddr   string `yaml:"ip_addr"`
	Netmask  string `yaml:"netmask"`
	Vlan     string `yaml:"vlan"`
	VlanType string `yaml:"vlan_type"`
	Speed    int    `yaml:"speed"`
	Peer     string `yaml:"peer"`
}

type DomainDoc struct {
	Name              string                 `yaml:"name"`
	State             string                 `yaml:"state"`
	DeploymentManager string                 `yaml:"deployment_manager"`
	Put               map[string]interface{} `yaml:"put"`
	PortConf          map[string]interface{} `yaml:"port_conf"`
	RaidConf          map[string]interface{} `yaml:"raid_conf"`
	Networks          []NetworkDoc           `yaml:"networks"`
}

type NetworkDoc struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	IPRange string `yaml:"ip_range"`
	Gateway string `yaml:"gateway"`
	Netmask string `yaml:"netmask"`
}

type CommandAliasDoc struct {
	Name     string `yaml:"name"`
	Commands string `yaml:"commands"`
}

// RoleDoc 角色；command_aliases 引用别名名称，servers 引用服务器 sn
type RoleDoc struct {
	Name           string   `yaml:"name"`
	Commands       string   `yaml:"commands"`
	CommandAliases []string `yaml:"command_aliases"`
	Servers        []string `yaml:"servers"`
}

type UserDoc struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Password string   `yaml:"password"`
	Roles    []string `yaml:"roles"`
}

// ImportResult 各类资源的导入数量
type ImportResult struct {
	Counts map[string]int
}

func (r *ImportResult) add(typ string, n int) {
	r.Counts[typ] += n
}

// Importer 从 YAML 导入资产，整个文件在一个事务中完成
type Importer struct {
	*InventoryService
}

// NewImporter 创建导入器
func NewImporter(db *gorm.DB) *Importer {
	return &Importer{InventoryService: NewInventoryService(db)}
}

// Decode 解析导入文件，未知字段视为错误
func Decode(r io.Reader) (*InventoryDocument, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc InventoryDocument
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &doc, nil
		}
		return nil, fmt.Errorf("解析导入文件失败: %w", err)
	}
	return &doc, nil
}

// Import 解析并导入
func (im *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return im.Apply(ctx, doc)
}

// Apply 导入已解析的文档，任一记录失败整体回滚
func (im *Importer) Apply(ctx context.Context, doc *InventoryDocument) (*ImportResult, error) {
	result := &ImportResult{Counts: make(map[string]int)}
	err := im.Tx(ctx, func(tx *gorm.DB) error {
		run := &importRun{
			tx:          tx.Omit(clause.Associations).Session(&gorm.Session{}),
			result:      result,
			switchPorts: make(map[string]string),
			serversBySN: make(map[string]string),
			aliases:     make(map[string]string),
			roles:       make(map[string]string),
		}
		return run.apply(doc)
	})
	if err != nil {
		return nil, err
	}

	im.log.WithFields(logrus.Fields{"counts": result.Counts}).Info("inventory imported")
	return result, nil
}

type importRun struct {
	tx     *gorm.DB
	result *ImportResult

	switchPorts map[string]string // "<交换机名>/<端口名>" -> uuid
	serversBySN map[string]string
	aliases     map[string]string
	roles       map[string]string
}

func (r *importRun) create(v models.Resource) error {
	if err := r.tx.Create(v).Error; err != nil {
		return fmt.Errorf("导入 %s %q 失败: %w", v.TableName(), resourceName(v), err)
	}
	r.result.add(v.TableName(), 1)
	return nil
}

func (r *importRun) apply(doc *InventoryDocument) error {
	type placed struct {
		dcUUID   string
		rackUUID string
		rack     *RackDoc
	}
	var racks []placed

	// 先建数据中心、机柜和交换机，服务器网口才能按名称对接交换机端口
	for i := range doc.DataCenters {
		dcDoc := &doc.DataCenters[i]
		dc := &models.DataCenter{Location: dcDoc.Location}
		dc.Name = dcDoc.Name
		dc.Comment = dcDoc.Comment
		if err := r.create(dc); err != nil {
			return err
		}

		for j := range dcDoc.Racks {
			rackDoc := &dcDoc.Racks[j]
			rack := &models.Rack{
				DCUUID:      dc.UUID,
				Height:      rackDoc.Height,
				Electricity: rackDoc.Electricity,
				RackLimit:   rackDoc.RackLimit,
			}
			rack.Name = rackDoc.Name
			if err := r.create(rack); err != nil {
				return err
			}
			racks = append(racks, placed{dcUUID: dc.UUID, rackUUID: rack.UUID, rack: rackDoc})

			for k := range rackDoc.Switches {
				if err := r.createSwitch(&rackDoc.Switches[k], dc.UUID, rack.UUID); err != nil {
					return err
				}
			}
		}
	}

	for _, p := range racks {
		for k := range p.rack.Servers {
			if err := r.createServer(&p.rack.Servers[k], p.dcUUID, p.rackUUID); err != nil {
				return err
			}
		}
	}

	for i := range doc.Domains {
		if err := r.createDomain(&doc.Domains[i]); err != nil {
			return err
		}
	}
	for i := range doc.CommandAliases {
		a := doc.CommandAliases[i]
		alias := &models.CommandAlias{Name: a.Name, Commands: a.Commands}
		if err := r.create(alias); err != nil {
			return err
		}
		r.aliases[alias.Name] = alias.UUID
	}
	for i := range doc.Roles {
		if err := r.createRole(&doc.Roles[i]); err != nil {
			return err
		}
	}
	for i := range doc.Users {
		if err := r.createUser(&doc.Users[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *importRun) createSwitch(d *SwitchDoc, dcUUID, rackUUID string) error {
	sw := &models.Switch{
		Name:      d.Name,
		SN:        optional(d.SN),
		RackLayer: d.RackLayer,
		Role:      d.Role,
		MgmIP:     d.MgmIP,
		MgmMac:    d.MgmMac,
		RackUUID:  &rackUUID,
		DCUUID:    &dcUUID,
	}
	sw.Vendor = d.Vendor
	sw.Model = d.Model
	if err := r.create(sw); err != nil {
		return err
	}

	for i := range d.Ports {
		pd := &d.Ports[i]
		port := &models.SwitchPort{
			SwitchUUID: sw.UUID,
			MacAddr:    optional(pd.MacAddr),
			IPAddr:     pd.IPAddr,
			Netmask:    pd.Netmask,
			Vlan:       pd.Vlan,
			VlanType:   pd.VlanType,
			Speed:      pd.Speed,
		}
		port.Name = pd.Name
		if err := r.create(port); err != nil {
			return err
		}
		r.switchPorts[sw.Name+"/"+pd.Name] = port.UUID
	}
	return nil
}

func (r *importRun) createServer(d *ServerDoc, dcUUID, rackUUID string) error {
	server := &models.Server{
		Domain:      d.Domain,
		SN:          optional(d.SN),
		CPUModel:    d.CPUModel,
		CPUCount:    d.CPUCount,
		MemTotal:    d.MemTotal,
		RaidModel:   d.RaidModel,
		System:      d.System,
		RackLayer:   d.RackLayer,
		Role:        d.Role,
		IPMIIP:      d.IPMIIP,
		IPMINetmask: d.IPMINetmask,
		IPMIGateway: d.IPMIGateway,
		MgmIP:       d.MgmIP,
		MgmMac:      d.MgmMac,
		MgmNetmask:  d.MgmNetmask,
		MgmGateway:  d.MgmGateway,
		RaidConf:    models.NewJSONDict(d.RaidConf),
		RackUUID:    &rackUUID,
		DCUUID:      &dcUUID,
		BuildState:  models.BuildState(d.BuildState),
		State:       models.ServerState(d.State),
	}
	server.Name = d.Name
	server.Vendor = d.Vendor
	server.Model = d.Model
	if err := r.create(server); err != nil {
		return err
	}
	if d.SN != "" {
		r.serversBySN[d.SN] = server.UUID
	}

	for i := range d.Disks {
		dd := &d.Disks[i]
		disk := &models.Disk{
			ServerUUID:     &server.UUID,
			WWN:            optional(dd.WWN),
			DiskType:       models.DiskType(dd.Type),
			TotalGB:        dd.TotalGB,
			SupportDiscard: dd.SupportDiscard,
		}
		disk.Name = dd.Name
		disk.Vendor = dd.Vendor
		disk.Model = dd.Model
		if err := r.create(disk); err != nil {
			return err
		}
	}

	for i := range d.Ports {
		pd := &d.Ports[i]
		port := &models.ServerPort{
			ServerUUID: server.UUID,
			MacAddr:    optional(pd.MacAddr),
			IPAddr:     pd.IPAddr,
			Netmask:    pd.Netmask,
			Vlan:       pd.Vlan,
			VlanType:   pd.VlanType,
			Speed:      pd.Speed,
		}
		port.Name = pd.Name
		if pd.Peer != "" {
			peer, ok := r.switchPorts[pd.Peer]
			if !ok {
				return fmt.Errorf("%w: switch port %q", apperrors.ErrReferenceNotFound, pd.Peer)
			}
			port.SwitchPortUUID = &peer
		}
		if err := r.create(port); err != nil {
			return err
		}
	}
	return nil
}

func (r *importRun) createDomain(d *DomainDoc) error {
	domain := &models.Domain{
		DeploymentManager: d.DeploymentManager,
		State:             models.DomainState(d.State),
		Put:               models.NewJSONDict(d.Put),
		PortConf:          models.NewJSONDict(d.PortConf),
		RaidConf:          models.NewJSONDict(d.RaidConf),
	}
	domain.Name = d.Name
	if err := r.create(domain); err != nil {
		return err
	}

	for i := range d.Networks {
		nd := &d.Networks[i]
		network := &models.Network{
			DomainUUID: &domain.UUID,
			Type:       nd.Type,
			IPRange:    nd.IPRange,
			Gateway:    nd.Gateway,
			Netmask:    nd.Netmask,
		}
		network.Name = nd.Name
		if err := r.create(network); err != nil {
			return err
		}
	}
	return nil
}

func (r *importRun) createRole(d *RoleDoc) error {
	role := &models.Role{Name: d.Name, Commands: d.Commands}
	if err := r.create(role); err != nil {
		return err
	}
	r.roles[role.Name] = role.UUID

	for _, name := range d.CommandAliases {
		aliasUUID, ok := r.aliases[normalizeName(name)]
		if !ok {
			return fmt.Errorf("%w: command alias %q", apperrors.ErrReferenceNotFound, name)
		}
		if err := r.link(&models.RoleCommandRelation{RoleUUID: role.UUID, CommandUUID: aliasUUID}); err != nil {
			return err
		}
	}
	for _, sn := range d.Servers {
		serverUUID, ok := r.serversBySN[sn]
		if !ok {
			return fmt.Errorf("%w: server sn %q", apperrors.ErrReferenceNotFound, sn)
		}
		if err := r.link(&models.RoleServerRelation{RoleUUID: role.UUID, ServerUUID: serverUUID}); err != nil {
			return err
		}
	}
	return nil
}

func (r *importRun) createUser(d *UserDoc) error {
	user := &models.User{Name: d.Name, UserType: models.UserType(strings.ToLower(d.Type))}
	if user.UserType == "" {
		user.UserType = models.UserTypeNormal
	}
	if user.UserType == models.UserTypeNormal && d.Password != "" {
		if err := user.SetPassword(d.Password); err != nil {
			return err
		}
	}
	if err := r.create(user); err != nil {
		return err
	}

	for _, name := range d.Roles {
		roleUUID, ok := r.roles[normalizeName(name)]
		if !ok {
			return fmt.Errorf("%w: role %q", apperrors.ErrReferenceNotFound, name)
		}
		if err := r.link(&models.UserRoleRelation{UserUUID: user.UUID, RoleUUID: roleUUID}); err != nil {
			return err
		}
	}
	return nil
}

func (r *importRun) link(rel interface{}) error {
	if err := r.tx.Create(rel).Error; err != nil {
		return err
	}
	if t, ok := rel.(interface{ TableName() string }); ok {
		r.result.add(t.TableName(), 1)
	}
	return nil
}

// optional 空字符串存为 NULL，避免可空唯一列冲突
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
