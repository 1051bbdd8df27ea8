// Package common holds the types shared by every rpc layer: the wire message
// with its four kinds, the run configuration, and the logger factory.
package common
