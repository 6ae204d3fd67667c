package common

import "time"

var Version = "v0.0.0" // this hard coding will be replaced automatically when building, no need to manually change

var StartTime = time.Now().Unix() // unit: second
