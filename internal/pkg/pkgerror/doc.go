// Package pkgerror is the error vocabulary shared by the data provider, the
// use cases and the HTTP edge. An Error carries a user message, a Type and a
// Code; the router turns the Code into the response status.
package pkgerror
