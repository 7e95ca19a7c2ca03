package model

// Role is the semantic classification assigned to a block. Exactly one
// role is assigned per block; roles are never inferred per run.
type Role int

const (
	// RoleUnclassified marks a block no heuristic matched. Such blocks
	// pass through the styling passes unmodified.
	RoleUnclassified Role = iota
	// RoleTitle is the document title.
	RoleTitle
	// RoleAuthor is the author line following the title.
	RoleAuthor
	// RoleAbstract covers the abstract marker block and the contiguous
	// blocks up to the next heading.
	RoleAbstract
	// RoleHeading1 through RoleHeading3 are section headings. Deeper
	// levels clamp to RoleHeading3.
	RoleHeading1
	RoleHeading2
	RoleHeading3
	// RoleBody is a narrative body paragraph.
	RoleBody
	// RoleCaption is a figure or table caption.
	RoleCaption
	// RoleReferenceEntry is an entry inside a references section.
	RoleReferenceEntry
	// RoleCellHeader and RoleCellBody classify table cells by row.
	RoleCellHeader
	RoleCellBody
)

// String returns the string representation of the role.
func (r Role) String() string {
	switch r {
	case RoleTitle:
		return "Title"
	case RoleAuthor:
		return "Author"
	case RoleAbstract:
		return "Abstract"
	case RoleHeading1:
		return "Heading1"
	case RoleHeading2:
		return "Heading2"
	case RoleHeading3:
		return "Heading3"
	case RoleBody:
		return "Body"
	case RoleCaption:
		return "Caption"
	case RoleReferenceEntry:
		return "ReferenceEntry"
	case RoleCellHeader:
		return "CellHeader"
	case RoleCellBody:
		return "CellBody"
	default:
		return "Unclassified"
	}
}

// AllRoles lists every role. Style rule sets are validated against this
// list so that adding a role surfaces as a missing-rule error rather than
// a silent fallthrough.
func AllRoles() []Role {
	return []Role{
		RoleUnclassified, RoleTitle, RoleAuthor, RoleAbstract,
		RoleHeading1, RoleHeading2, RoleHeading3,
		RoleBody, RoleCaption, RoleReferenceEntry,
		RoleCellHeader, RoleCellBody,
	}
}

// HeadingRole maps a heading level to its role. Levels deeper than 3
// clamp to RoleHeading3; levels below 1 clamp to RoleHeading1.
func HeadingRole(level int) Role {
	switch {
	case level <= 1:
		return RoleHeading1
	case level == 2:
		return RoleHeading2
	default:
		return RoleHeading3
	}
}

// IsHeading reports whether the role is a heading at any level.
func (r Role) IsHeading() bool {
	return r == RoleHeading1 || r == RoleHeading2 || r == RoleHeading3
}
