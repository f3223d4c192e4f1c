// model/refdata.go
package model

// Code/name reference rows managed by the administrative module.

type Branch struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type ItemType struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type PatronCategory struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
