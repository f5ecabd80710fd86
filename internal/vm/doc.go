// Package vm executes compiled units.
//
// A unit is decoded and verified, its runtime imports are linked against
// the intrinsic table and the resulting Image runs functions on a register
// machine. Values are tagged; runtime failures surface as *Trap.
package vm
