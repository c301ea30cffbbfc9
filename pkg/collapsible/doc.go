// Package collapsible turns layout containers into collapsible regions.
//
// A Controller keeps two cached heights for its container: the collapsed
// height, which is the box height of its trigger region, and the expanded
// height, the container's natural content height. Expanding and collapsing
// write explicit pixel heights through a layout.Host so the host can animate
// between them.
//
// Collapsibles nest. When a container changes height, the nearest
// collapsible ancestor is told how much of that change the layout does not
// show yet and re-measures itself, recursively up to the outermost one.
//
//	reg := collapsible.NewRegistry(doc, collapsible.WithLogger(logger))
//	cs, err := reg.New(doc.QueryAll(doc.Root(), ".faq"), collapsible.Options{
//		Trigger:            ".question",
//		InitiallyCollapsed: true,
//	})
//
// Controllers are driven from the host's UI timeline and are not safe for
// concurrent use.
package collapsible
