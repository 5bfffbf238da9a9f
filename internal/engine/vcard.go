package engine

import (
	"bytes"
	"fmt"

	"github.com/emersion/go-vcard"

	"staffdir/internal/config"
)

// EncodeVCards renders the employee list as a vCard 4.0 stream, the
// interchange format the importer also consumes. Dates are emitted only
// when known.
func EncodeVCards(employees []Employee) ([]byte, error) {
	var buf bytes.Buffer
	enc := vcard.NewEncoder(&buf)

	for _, e := range employees {
		card := make(vcard.Card)

		card.SetValue(config.VCardFN, e.Name)

		first, last := SplitName(e.Name)
		card.Set(config.VCardN, &vcard.Field{Value: last + ";" + first + ";;;"})

		if e.EmpNo != "" {
			card.SetValue(config.VCardUID, e.EmpNo)
		}
		if t := Clean(e.JobTitle); t != "" {
			card.SetValue(config.VCardTitle, t)
		}
		card.Set(config.VCardOrg, &vcard.Field{
			Value: e.GroupUnit() + ";" + e.GroupCrew(),
		})
		if p := Clean(e.WorkPhone); p != "" {
			card.Add(config.VCardTel, &vcard.Field{
				Value:  p,
				Params: vcard.Params{config.VCardParamType: {config.VCardTypeWork}},
			})
		}
		if p := Clean(e.CellPhone); p != "" {
			card.Add(config.VCardTel, &vcard.Field{
				Value:  p,
				Params: vcard.Params{config.VCardParamType: {config.VCardTypeCell}},
			})
		}
		if m := Clean(e.Email); m != "" {
			card.SetValue(config.VCardEmail, m)
		}
		if !e.BirthDate.IsZero() {
			card.SetValue(config.VCardBDAY, e.BirthDate.Format(config.DateFormatFullDash))
		}
		if !e.HireDate.IsZero() {
			card.SetValue(config.VCardAnniv, e.HireDate.Format(config.DateFormatFullDash))
		}

		vcard.ToV4(card)
		if err := enc.Encode(card); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}

	return buf.Bytes(), nil
}
