package nuget

type serviceIndex struct {
	Version   string     `json:"version"`
	Resources []resource `json:"resources"`
}

type resource struct {
	ID   string `json:"@id"`
	Type string `json:"@type"`
}

type registrationIndex struct {
	Count int                `json:"count"`
	Items []registrationPage `json:"items"`
}

// registrationPage is inlined in the index for small packages. Large
// packages list only the page URL and bounds; Items is then nil.
type registrationPage struct {
	ID    string             `json:"@id"`
	Count int                `json:"count"`
	Lower string             `json:"lower"`
	Upper string             `json:"upper"`
	Items []registrationLeaf `json:"items"`
}

type registrationLeaf struct {
	CatalogEntry catalogEntry `json:"catalogEntry"`
}

type catalogEntry struct {
	ID               string            `json:"id"`
	Version          string            `json:"version"`
	Listed           *bool             `json:"listed"`
	DependencyGroups []dependencyGroup `json:"dependencyGroups"`
}

func (e catalogEntry) isListed() bool { return e.Listed == nil || *e.Listed }

type dependencyGroup struct {
	TargetFramework string       `json:"targetFramework"`
	Dependencies    []dependency `json:"dependencies"`
}

type dependency struct {
	ID    string `json:"id"`
	Range string `json:"range"`
}

// baseURL is the cached form of the service index lookup.
type baseURL struct {
	URL string `json:"url"`
}
