package dev

import (
	"encoding/json"
	"go.uber.org/zap"
)

// Dump logs el as indented JSON at debug level.
func Dump(el interface{}) {
	elJson, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Dev: Unable to dump element")
		return
	}
	zap.L().Debug(string(elJson))
}
