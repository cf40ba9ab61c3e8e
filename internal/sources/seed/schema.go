package seed

// Entry is a single bookmark in the seed file.
type Entry struct {
	URL         string `yaml:"url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Group is a set of bookmarks sharing a folder. An empty folder name means
// uncategorized.
type Group struct {
	Folder    string  `yaml:"folder"`
	Icon      string  `yaml:"icon"`
	Bookmarks []Entry `yaml:"bookmarks"`
}

// Config is the root structure of the seed YAML file.
type Config []Group
