// Package views loads view modules and compiles them into router views.
//
// A view module is an html/template file named "<Module>.html". Modules come
// from a Source: the embedded defaults, a directory, or an S3 bucket.
//
//	src := views.Embedded()
//	home, err := views.Eager(ctx, src, "HomeView")
//	form := views.Lazy(src, "FormView")
package views
