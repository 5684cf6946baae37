package document

// Kind classifies a build document by its role in resolution.
type Kind int

const (
	// KindFull is a self-contained document that describes a complete build.
	KindFull Kind = iota
	// KindPartial is a reusable configuration fragment consumed via include.
	KindPartial
	// KindExtended inherits from one or more parent documents via extends.
	KindExtended
)

func (k Kind) String() string {
	switch k {
	case KindFull:
		return "full"
	case KindPartial:
		return "partial"
	case KindExtended:
		return "extended"
	default:
		return "unknown"
	}
}

// Meta names the artifact a build produces, one name per release channel.
// Names may contain the %VERSION% placeholder, substituted at plan time.
type Meta struct {
	StableName  string
	NightlyName string
}

// BasedOn identifies the firmware source tree a build starts from and the
// branch tracked by each release channel.
type BasedOn struct {
	Repo          string
	Path          string
	StableBranch  string
	NightlyBranch string
}

// Raw is one build document as produced by a storage loader, before
// classification. Kind markers (Partial, Extends) are carried as plain data;
// the resolve package turns a Raw into a tagged Document.
type Raw struct {
	// Name is the document identity: the slash-separated path of the file
	// relative to the scan root, without extension, or a producer tag.
	Name string
	// Source describes where the document came from, for error messages.
	Source string

	Partial bool
	Extends []string

	BoardEnv   string
	Include    []string
	Active     *bool
	Only       string
	MinVersion string
	Meta       *Meta
	BasedOn    *BasedOn

	Config    *OptionSet
	ConfigAdv *OptionSet
}

// Document is a classified build document. Which fields must be set is
// dictated by the schema for its Kind; resolution rewrites extended
// documents into full ones in place in the registry.
type Document struct {
	Name   string
	Source string
	Kind   Kind

	Extends []string
	Include []string

	BoardEnv   string
	Active     *bool
	Only       string
	MinVersion string
	Meta       *Meta
	BasedOn    *BasedOn

	Config    *OptionSet
	ConfigAdv *OptionSet
}

// Clone returns a deep copy of the document. Folding a parent into a merge
// accumulator must never mutate the parent, so the extension resolver always
// clones first. Option values are immutable and may be shared.
func (d *Document) Clone() *Document {
	c := *d
	c.Extends = append([]string(nil), d.Extends...)
	c.Include = append([]string(nil), d.Include...)
	if d.Active != nil {
		active := *d.Active
		c.Active = &active
	}
	if d.Meta != nil {
		meta := *d.Meta
		c.Meta = &meta
	}
	if d.BasedOn != nil {
		basedOn := *d.BasedOn
		c.BasedOn = &basedOn
	}
	c.Config = d.Config.Clone()
	c.ConfigAdv = d.ConfigAdv.Clone()
	return &c
}

// IsActive reports whether the document participates in builds. Documents
// are active unless explicitly deactivated.
func (d *Document) IsActive() bool {
	return d.Active == nil || *d.Active
}
