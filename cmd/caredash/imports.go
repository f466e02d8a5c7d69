package main

// Entity packages register themselves with registry.Global in init.
import (
	_ "github.com/caredash/caredash/custom/centers"
	_ "github.com/caredash/caredash/custom/patients"
	_ "github.com/caredash/caredash/custom/teams"
)
