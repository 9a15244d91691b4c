/*

Package lockbox defines interfaces used throughout the app, such as: storage,
transactions, handlers, addresses and time. It also contains helpers to work
with context and abci results.

Look into this package to get a brief overview of the building blocks the
extensions in x/ are put together with. The escrow ledger itself lives in
x/escrow.

*/

package lockbox
