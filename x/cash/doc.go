/*
Package cash implements the ledger of the native asset.

Every address owns a wallet holding a single balance expressed in the
smallest denomination. Balances can be moved between addresses with a
SendMsg, or directly by other extensions through the Controller.
*/
package cash
