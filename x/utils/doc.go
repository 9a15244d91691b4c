/*
Package utils contains the generic decorators every lockbox application
stack is built from: panic recovery, transaction logging, savepoints that
make a transaction atomic and the action tagger.
*/
package utils
