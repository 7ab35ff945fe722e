// Package mode describes Python target versions and the language features
// each of them supports. It also scores feature evidence found in a source
// file to infer which target versions the file can run on.
package mode
