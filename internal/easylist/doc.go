// Package easylist parses AdBlock Plus filter list syntax (the format used
// by EasyList and EasyPrivacy) and translates network rules into WebKit
// content-blocker triggers.
//
// Only blocking network rules survive translation. Comments, section
// headers, exception rules, cosmetic rules, and domain-scoped rules are
// classified and dropped with a skip reason. The pattern translator is a
// pure string-to-string mapping with no I/O.
package easylist
