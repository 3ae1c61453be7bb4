package render

// Version is the library version, reported in the PDF Producer tag.
// Release builds override it via ldflags.
var Version = "dev"

// producer returns the default Producer tag value.
func producer() string {
	return "go-render/" + Version
}
