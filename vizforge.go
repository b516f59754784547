// Package vizforge turns tabular data into rendered charts, optionally
// annotated with automatically detected anomalies.
//
// Usage:
//
//	cfg := config.Default()
//	tbl, _ := table.ParseFile("sales.csv")
//	set, _ := detect.New(cfg).Run(ctx, tbl, "revenue")
//	p, _ := plan.New(cfg).Plan(tbl, plan.Request{ChartType: plan.TypeLine, X: "month", Y: "revenue"})
//	ri := plan.MapHighlights(p, set, nil)
//	err := render.New(cfg).Chart(p, ri, out, render.FormatPNG)
//
// The planner and detector are pure: identical inputs always produce
// identical output, so plans can be cached and compared byte-for-byte.
// Rendering is the only stage that touches an image backend.
package vizforge
