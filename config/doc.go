// Package config decodes HCL pipeline files into engine options and unit
// configurations.
//
// Example:
//
//	engine {
//	  workers    = 8
//	  log_level  = "debug"
//	}
//
//	connect {
//	  prune_isolated = true
//
//	  coincidence {
//	    tolerance = 0.01
//	    rounding  = "truncate"
//	  }
//
//	  probe "closest" {
//	    radius          = 2
//	    max_connections = 1
//	  }
//
//	  probe "direction" {
//	    radius    = 5
//	    direction = [1, 0, 0]
//	    max_angle = 30
//	  }
//	}
//
// Files are parsed from bytes; reading them is left to the caller.
package config
