package verbs

const (
	Dashboard = VerbValue("dashboard")
	List      = VerbValue("list")
)

// Will represent a specific Verb (dashboard, list)
type VerbValue string

func (v VerbValue) String() string {
	return string(v)
}
