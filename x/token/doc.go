/*
Package token implements fungible tokens with balances and allowances.

A token is identified by the address derived from its symbol. Holders can
transfer their balance, or approve a spender to pull a limited amount on
their behalf with TransferFrom.
*/
package token
