// Package shell is the browser host for a viewroute router.
//
// A Shell serves each route's view as a full HTML page and keeps a websocket
// open for client-side navigation. The client sends NavRequest messages and
// the shell answers each one with a NavReply carrying the rendered view:
//
//	-> {"seq": 3, "path": "/update/42"}
//	<- {"seq": 3, "route": "Update", "params": {"id": "42"}, "html": "..."}
//	<- {"seq": 4, "error": "not_found"}
//
// A newer request supersedes any older one still in flight on the same
// connection: the older request is cancelled and never answered.
//
// Usage:
//
//	r := router.MustNew(entries, router.WithBase("/app"))
//	sh := shell.New(r, shell.WithLogger(logger))
//	http.ListenAndServe(":8080", sh.Handler())
package shell
