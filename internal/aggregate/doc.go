// Package aggregate turns backend payloads into chart-ready data: top word
// lists, word cloud sizes, emotion pie slices and the sentiment color scale.
//
// Everything here is a pure function of its input.
package aggregate
