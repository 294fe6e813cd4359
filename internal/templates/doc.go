// Package templates renders the Dockerfile templates offered by
// `pyrite docker init`.
package templates
