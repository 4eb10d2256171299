/*
Package errors implements custom error interfaces for the fund pool.

Each returned error is built around a registered root error. A root
error carries a unique numeric code and a description. Runtime errors
are created by wrapping a root error with any number of context layers.
Use the root error Is method to test what category an error belongs to,
regardless of how many times it was wrapped on the way up.
*/
package errors
