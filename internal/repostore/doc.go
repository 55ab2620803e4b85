// Package repostore anchors all repository resolution at a single root
// directory and enforces the naming rules that keep untrusted repository
// names from escaping it.
package repostore
