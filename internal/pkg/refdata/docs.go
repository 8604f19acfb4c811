// Package refdata holds the immutable reference tables of the logistics engine:
// the courier to tracking prefix table, the route strategy table and the data the
// synthetic route generator interpolates from.
//
// The tables ship embedded in the binary (default.yaml) and can be overridden at
// startup with a YAML file. They are loaded once and injected into the services
// that need them; nothing reads them through package level state.
package refdata
