package server

import (
	"github.com/ezrec/hwrw/translate"
)

var f = translate.From
