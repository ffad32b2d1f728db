// Package finalhandler answers the requests that nothing else in a handler chain answered.
//
// # Overview
//
// A final handler is the last step of an HTTP pipeline. It is invoked either without an
// error, because no handler produced a response, or with the error that ended the chain.
// It then decides the status code, negotiates between an HTML and a plain text
// representation, renders the body and writes the response. When the response header
// was already sent there is nothing sensible left to write, and the connection is aborted.
//
// A minimal example:
//
//	final, err := finalhandler.New(finalhandler.WithDefaultMessage())
//	if err != nil {
//	    return err
//	}
//
//	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
//	    sink, done := final.For(w, r)
//	    if err := serve(sink, r); err != nil {
//	        done(err)
//	    }
//	})
//
// The handler writes through the [Sink] returned by [Final.For], or wraps the writer
// with [Track] itself, so the final handler knows whether the header went out.
//
// # Status
//
// Without an error the status is 404. With an error the status starts at 500, or at the
// status the response already carries when that is 4xx or 5xx. An error that reports a
// status in the range [400, 600) through a StatusCode() int method always wins. The
// [*Error] type created with [NewError] is such an error:
//
//	return finalhandler.NewError(finalhandler.CodeNotFound, fmt.Errorf("user %s not found", id))
//
// # Message
//
// The 404 body reads "Cannot GET /path". For errors the body shows the status text, e.g.
// "Internal Server Error", unless a [MessageFunc] is configured with [WithMessage].
// [WithDefaultMessage] exposes the message of errors that carry a 4xx or 5xx status and
// keeps all others behind the status text.
//
// With [WithStacktrace] the body holds the error's stack instead. Errors may provide it
// through a Stack() string method; otherwise the verbose rendering of the error (%+v) is
// used, which for errors created with github.com/cockroachdb/errors includes the stack
// trace where the error was created.
//
// Error details are read through optional methods only, see [Inspect]: StatusCode,
// Message, Stack, Name and Headers.
//
// # Representation
//
// The representation follows the Accept header: text/html gets a small HTML document
// titled with the status text, anything else gets the message followed by a newline as
// text/plain. Both carry X-Content-Type-Options: nosniff and a Content-Length. HEAD
// requests receive the headers only.
//
// # Request bodies
//
// If the request body was not read to the end, the final handler drains it before it
// writes, so the client is never answered while it is still sending. The drain has no
// time limit; use server timeouts to bound it.
//
// # Error callback
//
// [WithOnError] registers a callback that is informed about every error. It is run
// detached from the response by a [Scheduler], by default on its own goroutine, and
// panics in it are not recovered.
//
// # ServeMux
//
// The package also contains a multiplexer with buffered responses whose handlers return
// errors. Every error, and every request no route matches, goes to its final handler:
//
//	mux := finalhandler.NewServeMux()
//	mux.HandleFunc("GET /items/{id}", func(ctx context.Context, w finalhandler.ResponseWriter, r *http.Request) error {
//	    item, err := db.GetItem(r.PathValue("id"))
//	    if err != nil {
//	        return finalhandler.NewError(finalhandler.CodeNotFound, err)
//	    }
//	    return json.NewEncoder(w).Encode(item)
//	})
//
// Because the response is buffered, the final handler can discard what a failing handler
// wrote and replace it. Only once the buffer is flushed does the header count as sent.
//
// [ServeMux.Mount] serves a handler under a path prefix, with the prefix stripped from the
// request path the handler sees.
package finalhandler
