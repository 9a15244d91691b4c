// Package lockboxtest provides mocks and helpers shared by the tests of all
// lockbox packages.
package lockboxtest
