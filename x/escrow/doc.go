/*
Package escrow implements a time-locked deposit ledger.

Anybody can deposit the native asset or a fungible token on behalf of a
receiver. The value is held by the ledger custody address until the release
time has passed. After that only the receiver can withdraw it, once.

A withdrawn deposit is not removed. Its record is zeroed and keeps only the
receiver, so an id is never reused and a second withdrawal is rejected.
*/
package escrow
