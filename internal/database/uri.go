package database

import (
	"log/slog"
	"strings"
)

const (
	srvScheme          = "mongodb+srv://"
	providerAppNameArg = "appName=Cluster0"
	canonicalWriteArgs = "retryWrites=true&w=majority"
	redactedCredential = "****"
)

// NormalizeURI repairs an Atlas-style SRV connection string that was pasted
// without a database path, e.g.
//
//	mongodb+srv://u:p@cluster0.x.mongodb.net/?appName=Cluster0
//
// becomes
//
//	mongodb+srv://u:p@cluster0.x.mongodb.net/<dbSegment>?retryWrites=true&w=majority
//
// Any other URI is returned unchanged. This is not a URI parser.
func NormalizeURI(uri, dbSegment string) string {
	if !strings.Contains(uri, srvScheme) ||
		strings.Contains(uri, "/"+dbSegment) ||
		!strings.Contains(uri, "/?") {
		return uri
	}

	fixed := strings.Replace(uri, "/?", "/"+dbSegment+"?", 1)
	fixed = strings.Replace(fixed, providerAppNameArg, canonicalWriteArgs, 1)

	slog.Warn("fixed connection string: added database name and updated query parameters",
		slog.String("database", dbSegment),
		slog.String("uri", RedactURI(fixed)),
	)
	return fixed
}

// RedactURI hides everything between "://" and the last "@" so credentials
// never reach the logs.
func RedactURI(uri string) string {
	schemeEnd := strings.Index(uri, "://")
	if schemeEnd < 0 {
		return uri
	}
	rest := uri[schemeEnd+3:]
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return uri
	}
	return uri[:schemeEnd+3] + redactedCredential + rest[at:]
}

// databaseFromURI returns the path segment naming the database, if any.
func databaseFromURI(uri string) string {
	schemeEnd := strings.Index(uri, "://")
	if schemeEnd < 0 {
		return ""
	}
	rest := uri[schemeEnd+3:]
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = rest[at+1:]
	}
	slash := strings.Index(rest, "/")
	if slash < 0 {
		return ""
	}
	name := rest[slash+1:]
	if q := strings.Index(name, "?"); q >= 0 {
		name = name[:q]
	}
	return name
}
