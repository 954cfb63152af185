/*
Package types defines the data structures shared between the todo server,
the request tracker and the terminal client.

# Wire Types

TodoUpdate / TodoUpdateResponse:
  - body and reply of POST /todos
  - the reply hash supersedes the hash the client sent

ArchiveResponse:
  - reply of POST /actions/archive_finished

TodoView / TodoListResponse / TodoQuery:
  - GET /todos, used to (re)load the client page

# Request Types

JSONRequest:
  - a JSON request issued by the executor

RequestResult:
  - status, headers, body
  - duration and size metrics
  - transport error text (Status is 0 when no response arrived)

HistoryEntry:
  - a finished request as stored in the history database
*/
package types
