package build

import "fmt"

// Info describes the binary being executed. Values are injected by the linker.
type Info struct {
	Version string
	Commit  string
	Date    string
}

type Key struct{}

// InfoKey is the context key under which the build Info is stored.
var InfoKey = Key{}

func (i *Info) String() string {
	if i == nil {
		return "unknown"
	}
	if i.Commit == "" || i.Commit == "unknown" {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, i.Commit)
}
