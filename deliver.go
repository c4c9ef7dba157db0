// Package deliver extracts publishable content from web pages and delivers it
// to remote publishing services. Given a parsed page and a description of the
// element the user clicked, it picks the content extraction strategies that
// apply, builds canonical content records (link, quote, photo, video, reblog),
// and hands them to destination adaptors (Tumblr, Delicious, Instapaper,
// Yammer, or a generic form endpoint).
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/) or after the
// remote service they talk to (e.g., tumblr/, delicious/).
package deliver
