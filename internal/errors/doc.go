// Package errors provides structured, coded error messages for the viewroute
// CLI and config loading.
//
// # Error Categories
//
//   - routing: path resolution and route table errors
//   - view: view source and template errors
//   - config: config file errors
//   - cli: command errors
//
// # Usage
//
//	err := errors.New("C002").
//	    WithLocation("viewroute.toml", 4, 9).
//	    WithSuggestion("Quote string values")
//
//	fmt.Println(err.Format())
//
// Router errors are mapped to codes with FromError:
//
//	_, err := r.Resolve("/nope")
//	errors.FromError(err, "X001").Code // "R001"
package errors
