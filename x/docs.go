/*
Package x contains the lockbox extensions.

Extensions implement the functionality of the ledger (handlers,
decorators, controllers and genesis initializers) and are combined
together into an application by the app package.

  - x/utils holds the generic decorators (recovery, logging, savepoint)
  - x/sigs authenticates signed transactions
  - x/cash keeps the balances of the native asset
  - x/token keeps fungible tokens with allowances
  - x/escrow is the time locked escrow ledger
*/
package x
