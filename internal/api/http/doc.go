/*
Package http implements the REST handlers the desktop shell talks to.

Handlers are thin: they bind and validate a request, call the session,
and map domain errors onto status codes:

  - 404: missing path, app, setting key or profile
  - 409: wrong node kind, moving a directory into itself, built-in id
    clashes, taken usernames
  - 401: bad credentials
  - 400: invalid names, values, plugins and bodies

Operations on a window that has already closed answer 200 with
"success": false, matching the registry's no-op semantics.

File reads carry an ETag derived from the content so the shell can poll
with If-None-Match.
*/
package http
