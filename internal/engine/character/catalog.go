package character

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tiendc/go-deepcopy"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
)

// Catalog validation errors.
var (
	ErrUnknownClip      = errors.New("descriptor references a clip the rig does not have")
	ErrUnknownSuccessor = errors.New("successor names no descriptor")
	ErrDuplicateClip    = errors.New("descriptor name defined twice")
	ErrMissingDefault   = errors.New("default descriptor not defined")
	ErrUnknownWalkSet   = errors.New("walk set names no descriptor")
)

// ClipID indexes a descriptor in its Catalog.
type ClipID int

// NoClip marks a descriptor without a successor.
const NoClip ClipID = -1

// Default sensitivities applied when a descriptor does not set one.
const (
	WalkSensitivity   = 1.0
	ActionSensitivity = 0.6
)

// Descriptor is one resolved catalog entry.
type Descriptor struct {
	ID        ClipID
	Name      string
	Clip      *model.Clip
	Next      ClipID
	PreDelay  time.Duration
	PostDelay time.Duration
	// Hold freezes on the last pose instead of looping when Next is NoClip.
	Hold        bool
	Walk        bool
	Hidden      bool
	Sensitivity float32
	Icon        string
}

// Duration returns the clip length in seconds.
func (d *Descriptor) Duration() float32 {
	if d.Clip == nil {
		return 0
	}
	return d.Clip.Duration
}

// WalkSet names the six walk descriptors of one walking style.
type WalkSet struct {
	Start, Loop, End          ClipID
	RevStart, RevLoop, RevEnd ClipID
}

// Catalog is the validated, read-only descriptor table of a rig.
type Catalog struct {
	descriptors []Descriptor
	byName      map[string]ClipID
	def         ClipID

	walkSets       map[string]WalkSet
	defaultWalkSet string
	categorySens   map[string]float32
	fallbackSens   float32
}

// DescriptorSpec is the file form of a descriptor.
type DescriptorSpec struct {
	Name        string  `yaml:"name"`
	Clip        string  `yaml:"clip,omitempty"` // defaults to Name
	Next        string  `yaml:"next,omitempty"`
	PreDelayMs  int     `yaml:"pre_delay_ms,omitempty"`
	PostDelayMs int     `yaml:"post_delay_ms,omitempty"`
	Hold        bool    `yaml:"hold,omitempty"`
	Hidden      bool    `yaml:"hidden,omitempty"`
	Sensitivity float32 `yaml:"sensitivity,omitempty"`
	Icon        string  `yaml:"icon,omitempty"`
}

// WalkSetSpec is the file form of a walk set.
type WalkSetSpec struct {
	Start    string `yaml:"start"`
	Loop     string `yaml:"loop"`
	End      string `yaml:"end"`
	RevStart string `yaml:"rev_start"`
	RevLoop  string `yaml:"rev_loop"`
	RevEnd   string `yaml:"rev_end"`
}

// CatalogFile is the YAML document describing a catalog.
type CatalogFile struct {
	Default             string                 `yaml:"default"`
	DefaultWalkSet      string                 `yaml:"default_walk_set"`
	DefaultSensitivity  float32                `yaml:"default_category_sensitivity"`
	CategorySensitivity map[string]float32     `yaml:"category_sensitivity"`
	WalkSets            map[string]WalkSetSpec `yaml:"walk_sets"`
	Walk                []DescriptorSpec       `yaml:"walk"`
	Actions             []DescriptorSpec       `yaml:"actions"`
}

var builtinCatalog = CatalogFile{
	Default:            "Idle",
	DefaultWalkSet:     "normal",
	DefaultSensitivity: 0.8,
	CategorySensitivity: map[string]float32{
		"relaxed": 0.6,
		"normal":  1.0,
	},
	WalkSets: map[string]WalkSetSpec{
		"normal": {
			Start: "WalkStart", Loop: "WalkLoop", End: "WalkEnd",
			RevStart: "WalkRevStart", RevLoop: "WalkRevLoop", RevEnd: "WalkRevEnd",
		},
		"relaxed": {
			Start: "WalkRelaxedStart", Loop: "WalkRelaxedLoop", End: "WalkRelaxedEnd",
			RevStart: "WalkRevRelaxedStart", RevLoop: "WalkRevRelaxedLoop", RevEnd: "WalkRevRelaxedEnd",
		},
	},
	Walk: []DescriptorSpec{
		{Name: "WalkRelaxedEnd", Next: "Idle", PostDelayMs: 2000},
		{Name: "WalkRelaxedLoop"},
		{Name: "WalkRevRelaxedLoop", PreDelayMs: 1000},
		{Name: "WalkRevRelaxedStart", Next: "WalkRevRelaxedLoop", PreDelayMs: 2000},
		{Name: "WalkLoop"},
		{Name: "WalkRevLoop"},
		{Name: "WalkRevRelaxedEnd", Next: "Idle", PostDelayMs: 6000},
		{Name: "WalkRelaxedStart", Next: "WalkRelaxedLoop", PreDelayMs: 1000},
		{Name: "WalkEnd", Next: "Idle", PostDelayMs: 500},
		{Name: "WalkRevStart", Next: "WalkRevLoop", PreDelayMs: 1000},
		{Name: "WalkRevEnd", Next: "Idle", PostDelayMs: 500},
		{Name: "WalkStart", Next: "WalkLoop", PreDelayMs: 1000},
	},
	Actions: []DescriptorSpec{
		{Name: "Idle", Sensitivity: 0.5, Hidden: true},
		{Name: "Shoot", Next: "Idle", Icon: "🎯"},
		{Name: "DrawGun", Next: "Idle", Icon: "🔫"},
		{Name: "CoolShoot", Next: "Idle", Icon: "👉"},
		{Name: "GunShoot", Next: "Idle", Icon: "🔫"},
		{Name: "Dance", Next: "Idle", Icon: "💃"},
		{Name: "BreakDoor", Next: "Idle", Icon: "🚪"},
		{Name: "StandToSit", Next: "StandToSitRev", PostDelayMs: 1000, Sensitivity: 0.5, Icon: "🪑"},
		{Name: "StandToSitRev", Next: "Idle", Hidden: true, Icon: "🪑"},
	},
}

// DefaultCatalogFile returns a copy of the built-in catalog that the caller
// may modify.
func DefaultCatalogFile() CatalogFile {
	var out CatalogFile
	if err := deepcopy.Copy(&out, &builtinCatalog); err != nil {
		// Plain data only; a failure here is a programming error
		panic(fmt.Sprintf("copy builtin catalog: %v", err))
	}
	return out
}

// LoadCatalogFile reads a catalog document from path.
func LoadCatalogFile(path string) (CatalogFile, error) {
	var f CatalogFile
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read catalog: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse catalog: %w", err)
	}
	return f, nil
}

// ClipNames returns the clip name every descriptor needs, in file order.
func (f CatalogFile) ClipNames() []string {
	names := make([]string, 0, len(f.Walk)+len(f.Actions))
	seen := make(map[string]bool)
	for _, list := range [][]DescriptorSpec{f.Walk, f.Actions} {
		for _, d := range list {
			clip := d.Clip
			if clip == "" {
				clip = d.Name
			}
			if !seen[clip] {
				seen[clip] = true
				names = append(names, clip)
			}
		}
	}
	return names
}

// NewCatalog resolves every name in f against itself and clips. All
// references are checked here so lookups after load cannot fail.
func NewCatalog(f CatalogFile, clips map[string]*model.Clip) (*Catalog, error) {
	c := &Catalog{
		byName:         make(map[string]ClipID),
		walkSets:       make(map[string]WalkSet),
		defaultWalkSet: f.DefaultWalkSet,
		categorySens:   make(map[string]float32),
		fallbackSens:   f.DefaultSensitivity,
	}
	if c.fallbackSens == 0 {
		c.fallbackSens = 1
	}
	for k, v := range f.CategorySensitivity {
		c.categorySens[k] = v
	}

	add := func(spec DescriptorSpec, walk bool) error {
		if _, dup := c.byName[spec.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateClip, spec.Name)
		}
		clipName := spec.Clip
		if clipName == "" {
			clipName = spec.Name
		}
		clip, ok := clips[clipName]
		if !ok || clip == nil {
			return fmt.Errorf("%w: %q wants clip %q", ErrUnknownClip, spec.Name, clipName)
		}
		sens := spec.Sensitivity
		if sens == 0 {
			sens = ActionSensitivity
			if walk {
				sens = WalkSensitivity
			}
		}
		id := ClipID(len(c.descriptors))
		c.byName[spec.Name] = id
		c.descriptors = append(c.descriptors, Descriptor{
			ID:          id,
			Name:        spec.Name,
			Clip:        clip,
			Next:        NoClip,
			PreDelay:    time.Duration(spec.PreDelayMs) * time.Millisecond,
			PostDelay:   time.Duration(spec.PostDelayMs) * time.Millisecond,
			Hold:        spec.Hold,
			Walk:        walk,
			Hidden:      spec.Hidden,
			Sensitivity: sens,
			Icon:        spec.Icon,
		})
		return nil
	}

	for _, d := range f.Walk {
		if err := add(d, true); err != nil {
			return nil, err
		}
	}
	for _, d := range f.Actions {
		if err := add(d, false); err != nil {
			return nil, err
		}
	}

	// Successors may point forward in the file, so resolve in a second pass
	specs := append(append([]DescriptorSpec(nil), f.Walk...), f.Actions...)
	for i, spec := range specs {
		if spec.Next == "" {
			continue
		}
		next, ok := c.byName[spec.Next]
		if !ok {
			return nil, fmt.Errorf("%w: %q -> %q", ErrUnknownSuccessor, spec.Name, spec.Next)
		}
		c.descriptors[i].Next = next
	}

	def, ok := c.byName[f.Default]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingDefault, f.Default)
	}
	c.def = def

	for name, ws := range f.WalkSets {
		set, err := c.resolveWalkSet(name, ws)
		if err != nil {
			return nil, err
		}
		c.walkSets[name] = set
	}
	if len(c.walkSets) > 0 {
		if _, ok := c.walkSets[c.defaultWalkSet]; !ok {
			return nil, fmt.Errorf("%w: default walk set %q not defined", ErrUnknownWalkSet, c.defaultWalkSet)
		}
	}

	return c, nil
}

func (c *Catalog) resolveWalkSet(name string, ws WalkSetSpec) (WalkSet, error) {
	var set WalkSet
	fields := []struct {
		dst  *ClipID
		name string
	}{
		{&set.Start, ws.Start}, {&set.Loop, ws.Loop}, {&set.End, ws.End},
		{&set.RevStart, ws.RevStart}, {&set.RevLoop, ws.RevLoop}, {&set.RevEnd, ws.RevEnd},
	}
	for _, fld := range fields {
		id, ok := c.byName[fld.name]
		if !ok {
			return set, fmt.Errorf("%w: set %q references %q", ErrUnknownWalkSet, name, fld.name)
		}
		*fld.dst = id
	}
	return set, nil
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int {
	return len(c.descriptors)
}

// Descriptor returns the descriptor for id. id must come from this catalog.
func (c *Catalog) Descriptor(id ClipID) *Descriptor {
	return &c.descriptors[id]
}

// Lookup finds a descriptor by name.
func (c *Catalog) Lookup(name string) (ClipID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// Default returns the fallback descriptor, normally Idle.
func (c *Catalog) Default() ClipID {
	return c.def
}

// WalkSet returns the walk descriptors for category. Unknown categories get
// the default set and ok is false.
func (c *Catalog) WalkSet(category string) (WalkSet, bool) {
	if ws, ok := c.walkSets[category]; ok {
		return ws, true
	}
	return c.walkSets[c.defaultWalkSet], false
}

// HasWalkSets reports whether the catalog defines any walk set.
func (c *Catalog) HasWalkSets() bool {
	return len(c.walkSets) > 0
}

// CategorySensitivity returns the movement multiplier for a walk category.
func (c *Catalog) CategorySensitivity(category string) float32 {
	if s, ok := c.categorySens[category]; ok {
		return s
	}
	return c.fallbackSens
}

// Actions returns the visible non-walk descriptors in catalog order.
func (c *Catalog) Actions() []*Descriptor {
	var out []*Descriptor
	for i := range c.descriptors {
		d := &c.descriptors[i]
		if d.Walk || d.Hidden {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Names returns every descriptor name in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.descriptors))
	for i := range c.descriptors {
		out[i] = c.descriptors[i].Name
	}
	return out
}
