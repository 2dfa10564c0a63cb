// File: lixenwraith/conftree/doc.go

// Package conftree provides a hierarchical configuration store for a small,
// human-editable text format. Comments, blank lines and entry order survive a
// load/store round trip.
//
// Format:
//
//	# comment lines start with '#'
//	[net]
//		host = localhost
//		port = 8080 # trailing comments are stripped by non-string getters
//	[!net]
//
// Sections open with [name] and close with [!name]. Values are "name = value",
// split at the first '='. Names must not contain '.', which separates path
// components.
//
// Features:
//   - Lossless parse/serialize of sections, values, comments and blank lines
//   - Dotted path addressing: ("net.port") and ("net", "port") are equivalent
//   - Typed getters, Try* getters with defaults and setters per primitive type
//   - A Cache sharing one parsed document per file between all handles
//   - Section views via GetInstance that write through to the document
//   - Struct decoding (mapstructure) and validation (validator)
//   - TOML, YAML and JSON export; TOML and YAML import
//   - File watching with debounced reload and change notifications
//   - Prometheus metrics and zerolog logging
//
// Quick Start:
//
//	cache := conftree.NewCache(conftree.DefaultCacheOptions())
//	cfg, err := cache.Load("server.conf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	host, _ := cfg.String("net.host")
//	port := cfg.TryInt(8080, "net.port")
//
//	net, _ := cfg.GetInstance("net")
//	_ = net.SetInt(9090, "port") // visible through cfg as well
//	_ = cfg.Store()
//
// Duplicates:
// A repeated key is kept; lookups return the last one and Strings returns
// all of them. A repeated sibling section is skipped entirely, malformed lines
// inside it included, and reported as a DuplicateSectionError warning. Only
// its closing tag must still match.
//
// Thread Safety:
// Each call takes the document lock once. Use Config.Update for a
// read-modify-write sequence that must not interleave with other writers.
package conftree
