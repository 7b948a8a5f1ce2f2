package fdb

import log "github.com/sirupsen/logrus"

// Logger is the package-level logger that Open hands to the pager (page
// allocation, guard-contract drop-bomb warnings) and that bootstrap and
// Open log through. Swap it before calling Open to redirect or silence
// those lines independently of the root logrus instance. The query
// package logs through the root logrus instance, not through Logger.
var Logger = log.New()
