// Package launcher executes .novar archives and standalone .nomc units.
//
// A launch walks Opening, ManifestRead, then UnitLoad and UnitExecute for
// each listed unit, then Done. Failures before the unit loop are fatal
// (*LaunchError); a failing unit is recorded with code 1 and the loop moves
// on. The exit code is the result of the last unit.
package launcher
