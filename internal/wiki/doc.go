// Package wiki provides access to the wiki content service.
//
// The Client type talks to the MediaWiki Action API of every site it is
// asked about, keeping one API client per site, and to Wikidata for the
// claims of linked items. It is built on cgt.name/pkg/go-mwclient, which
// handles request encoding, query continuation and API error decoding.
//
// All errors caused by the remote service wrap model.ErrUpstreamUnavailable.
// Two conditions are reported with their own sentinel errors so callers can
// recognize them: ErrPageNotFound for titles that do not exist and
// ErrMalformedInterwiki for interwiki link data that cannot be parsed.
package wiki
