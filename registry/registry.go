package registry

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"xdao.co/appreg/node"
)

// Address is an opaque caller or target identity assigned by the host
// environment. The zero Address is the empty string.
type Address string

// IsZero reports whether a is the zero/null address.
func (a Address) IsZero() bool { return a == "" }

// Directory is the hierarchical ownership store the registry writes
// subnodes into. Assignment of owner and resolver is total
// (overwrite); CreateSubnode must fail unless caller owns parent.
type Directory interface {
	CreateSubnode(caller Address, parent node.Node, label node.LabelHash, owner, resolver Address) error
}

// Resolver maps nodes to target addresses. SetTarget must fail unless
// caller is the node's Directory-registered owner; Target is a public
// read returning the zero Address for unbound nodes.
type Resolver interface {
	Addr() Address
	SetTarget(caller Address, n node.Node, target Address) error
	Target(n node.Node) Address
}

// CodeChecker answers whether an address carries deployed executable
// code. The check belongs to the execution environment; the registry
// only consumes the verdict.
type CodeChecker interface {
	HasCode(Address) bool
}

// CodeCheckerFunc adapts a function to the CodeChecker interface.
type CodeCheckerFunc func(Address) bool

func (f CodeCheckerFunc) HasCode(a Address) bool { return f(a) }

// AllowAllCode treats every non-zero address as a deployed target.
// Meant for environments without an execution layer to consult.
var AllowAllCode CodeChecker = CodeCheckerFunc(func(a Address) bool { return !a.IsZero() })

// LatestLabel is the alias label whose resolved target always tracks
// the newest published version.
const LatestLabel = "latest"

// Config carries the registry's injected collaborators and identity.
type Config struct {
	Directory Directory
	Resolver  Resolver
	Codes     CodeChecker
	Events    Sink // optional; nil means no events

	// Root is the node all org nodes are derived from.
	Root node.Node
	// Self is the registry's own address; it becomes the owner of
	// every subnode the registry creates.
	Self Address
}

// Registry is the admission-control and state-transition core.
//
// It is a single-writer state machine: every mutating operation runs
// to completion under one mutex (validation, collaborator calls,
// local mutation, event emission) before the next call is observed.
type Registry struct {
	dir    Directory
	res    Resolver
	codes  CodeChecker
	events Sink
	root   node.Node
	self   Address

	mu        sync.Mutex
	orgAdmins map[node.Node]Address
	appAdmins map[node.Node]Address
	versions  map[node.Node]uint64
}

// New constructs a Registry. All collaborators except Events are
// required.
func New(cfg Config) (*Registry, error) {
	if cfg.Directory == nil {
		return nil, fmt.Errorf("registry: Directory is required")
	}
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("registry: Resolver is required")
	}
	if cfg.Codes == nil {
		return nil, fmt.Errorf("registry: Codes is required")
	}
	if cfg.Self.IsZero() {
		return nil, fmt.Errorf("registry: Self address is required")
	}
	events := cfg.Events
	if events == nil {
		events = NopSink{}
	}
	return &Registry{
		dir:       cfg.Directory,
		res:       cfg.Resolver,
		codes:     cfg.Codes,
		events:    events,
		root:      cfg.Root,
		self:      cfg.Self,
		orgAdmins: make(map[node.Node]Address),
		appAdmins: make(map[node.Node]Address),
		versions:  make(map[node.Node]uint64),
	}, nil
}

// Root returns the node org nodes are derived from.
func (r *Registry) Root() node.Node { return r.root }

// Derive exposes the registry's derivation scheme for diagnostics and
// offline lookups. It mutates no state.
func (r *Registry) Derive(parent node.Node, label string) (node.Node, error) {
	lh, err := node.CheckLabel(label)
	if err != nil {
		return node.Node{}, labelFault(label, err)
	}
	return node.Derive(parent, lh), nil
}

// RegisterOrg creates an org record under the registry root.
//
// The registry itself becomes the Directory owner of the org node; it
// is the only entity permitted to mutate resolution targets beneath
// its root. Org records are never deleted.
func (r *Registry) RegisterOrg(label string, admin Address) (node.Node, error) {
	if admin.IsZero() {
		return node.Node{}, newError(KindInvalidAddress, "REG-ADDR-001", "org admin must not be the zero address")
	}
	lh, err := node.CheckLabel(label)
	if err != nil {
		return node.Node{}, labelFault(label, err)
	}
	orgNode := node.Derive(r.root, lh)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orgAdmins[orgNode]; ok {
		return node.Node{}, newError(KindAlreadyRegistered, "REG-ORG-001", fmt.Sprintf("org %q already registered", label))
	}
	if err := r.dir.CreateSubnode(r.self, r.root, lh, r.self, r.res.Addr()); err != nil {
		return node.Node{}, wrapError(KindInternal, "REG-INT-001", "directory: create org subnode", err)
	}
	r.orgAdmins[orgNode] = admin
	r.events.Emit(OrgRegistered{OrgNode: orgNode, Label: label, Admin: admin})
	return orgNode, nil
}

// SetOrgAdmin reassigns the admin of an existing org record.
func (r *Registry) SetOrgAdmin(caller Address, orgNode node.Node, newAdmin Address) error {
	if newAdmin.IsZero() {
		return newError(KindInvalidAddress, "REG-ADDR-002", "new org admin must not be the zero address")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.orgAdmins[orgNode]
	if !ok {
		return newError(KindNotRegistered, "REG-ORG-002", "org not registered")
	}
	if caller != admin {
		return newError(KindUnauthorized, "REG-ORG-003", "caller is not the org admin")
	}
	r.orgAdmins[orgNode] = newAdmin
	r.events.Emit(OrgAdminChanged{OrgNode: orgNode, Admin: newAdmin})
	return nil
}

// RegisterApp creates an app record under an org and binds the app
// node to its proxy target. The caller becomes the app admin.
func (r *Registry) RegisterApp(caller Address, label string, orgNode node.Node, proxy Address) (node.Node, error) {
	if proxy.IsZero() {
		return node.Node{}, newError(KindInvalidAddress, "REG-ADDR-003", "proxy target must not be the zero address")
	}
	if !r.codes.HasCode(proxy) {
		return node.Node{}, newError(KindTargetHasNoCode, "REG-CODE-001", "proxy target has no deployed code")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	orgAdmin, ok := r.orgAdmins[orgNode]
	if !ok {
		return node.Node{}, newError(KindNotRegistered, "REG-ORG-002", "org not registered")
	}
	if caller != orgAdmin {
		return node.Node{}, newError(KindUnauthorized, "REG-ORG-003", "caller is not the org admin")
	}
	lh, err := node.CheckLabel(label)
	if err != nil {
		return node.Node{}, labelFault(label, err)
	}
	appNode := node.Derive(orgNode, lh)
	if _, ok := r.appAdmins[appNode]; ok {
		return node.Node{}, newError(KindAlreadyRegistered, "REG-APP-001", fmt.Sprintf("app %q already registered under org", label))
	}
	if err := r.dir.CreateSubnode(r.self, orgNode, lh, r.self, r.res.Addr()); err != nil {
		return node.Node{}, wrapError(KindInternal, "REG-INT-001", "directory: create app subnode", err)
	}
	if err := r.res.SetTarget(r.self, appNode, proxy); err != nil {
		return node.Node{}, wrapError(KindInternal, "REG-INT-002", "resolver: bind app proxy", err)
	}
	r.appAdmins[appNode] = caller
	r.events.Emit(AppRegistered{OrgNode: orgNode, AppNode: appNode, Label: label, Proxy: proxy, Admin: caller})
	return appNode, nil
}

// SetAppAdmin reassigns the admin of an existing app record.
func (r *Registry) SetAppAdmin(caller Address, appNode node.Node, newAdmin Address) error {
	if newAdmin.IsZero() {
		return newError(KindInvalidAddress, "REG-ADDR-004", "new app admin must not be the zero address")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.appAdmins[appNode]
	if !ok {
		return newError(KindNotRegistered, "REG-APP-002", "app not registered")
	}
	if caller != admin {
		return newError(KindUnauthorized, "REG-APP-003", "caller is not the app admin")
	}
	r.appAdmins[appNode] = newAdmin
	r.events.Emit(AppAdminChanged{AppNode: appNode, Admin: newAdmin})
	return nil
}

// PublishVersion assigns the next version number for an app, creates
// the version subnode, binds it to impl, and retargets the latest
// alias.
//
// Version numbers are derived, never caller-supplied: each app's
// sequence is 1, 2, 3, ... with no gaps or reuse. The alias subnode is
// created once, on the first publish; only its resolver target changes
// afterwards. The counter is advanced after all collaborator calls
// succeed, so a counter value always implies a resolvable version node.
func (r *Registry) PublishVersion(caller Address, appNode node.Node, impl Address) (uint64, node.Node, error) {
	if impl.IsZero() {
		return 0, node.Node{}, newError(KindInvalidAddress, "REG-ADDR-005", "implementation must not be the zero address")
	}
	if !r.codes.HasCode(impl) {
		return 0, node.Node{}, newError(KindTargetHasNoCode, "REG-CODE-002", "implementation has no deployed code")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.appAdmins[appNode]
	if !ok {
		return 0, node.Node{}, newError(KindNotRegistered, "REG-APP-002", "app not registered")
	}
	if caller != admin {
		return 0, node.Node{}, newError(KindUnauthorized, "REG-APP-003", "caller is not the app admin")
	}

	version := r.versions[appNode] + 1
	vlh := node.HashLabel(strconv.FormatUint(version, 10))
	versionNode := node.Derive(appNode, vlh)

	if err := r.dir.CreateSubnode(r.self, appNode, vlh, r.self, r.res.Addr()); err != nil {
		return 0, node.Node{}, wrapError(KindInternal, "REG-INT-001", "directory: create version subnode", err)
	}
	if err := r.res.SetTarget(r.self, versionNode, impl); err != nil {
		return 0, node.Node{}, wrapError(KindInternal, "REG-INT-002", "resolver: bind version node", err)
	}

	llh := node.HashLabel(LatestLabel)
	latestNode := node.Derive(appNode, llh)
	if version == 1 {
		// First publish for this app: the alias subnode exists from
		// here on; later publishes only retarget it.
		if err := r.dir.CreateSubnode(r.self, appNode, llh, r.self, r.res.Addr()); err != nil {
			return 0, node.Node{}, wrapError(KindInternal, "REG-INT-001", "directory: create latest alias subnode", err)
		}
	}
	if err := r.res.SetTarget(r.self, latestNode, impl); err != nil {
		return 0, node.Node{}, wrapError(KindInternal, "REG-INT-002", "resolver: retarget latest alias", err)
	}

	r.versions[appNode] = version
	r.events.Emit(VersionPublished{AppNode: appNode, VersionNode: versionNode, Version: version, Implementation: impl})
	return version, versionNode, nil
}

// LatestImplementation returns the target of an app's latest alias
// node. No authorization is required; the zero Address is returned
// when the app has never published.
func (r *Registry) LatestImplementation(appNode node.Node) Address {
	return r.res.Target(node.Derive(appNode, node.HashLabel(LatestLabel)))
}

// LatestVersion returns the newest version number for an app, 0 when
// nothing has been published.
func (r *Registry) LatestVersion(appNode node.Node) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.versions[appNode]
}

// OrgAdmin returns the admin recorded for an org node, zero if none.
func (r *Registry) OrgAdmin(orgNode node.Node) Address {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orgAdmins[orgNode]
}

// AppAdmin returns the admin recorded for an app node, zero if none.
func (r *Registry) AppAdmin(appNode node.Node) Address {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appAdmins[appNode]
}

func labelFault(label string, err error) error {
	switch {
	case errors.Is(err, node.ErrLabelLength):
		return wrapError(KindInvalidLabel, "REG-LBL-001", fmt.Sprintf("label %q: length must be 1..63", label), err)
	case errors.Is(err, node.ErrLabelHyphen):
		return wrapError(KindInvalidLabel, "REG-LBL-002", fmt.Sprintf("label %q: leading/trailing hyphen", label), err)
	case errors.Is(err, node.ErrLabelCharacter):
		return wrapError(KindInvalidLabel, "REG-LBL-003", fmt.Sprintf("label %q: illegal character", label), err)
	default:
		return wrapError(KindInvalidLabel, "REG-LBL-000", fmt.Sprintf("label %q invalid", label), err)
	}
}
