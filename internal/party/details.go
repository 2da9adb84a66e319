package party

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"erpnext-mcp/pkg/erpnext"
	"erpnext-mcp/pkg/result"
)

// Contact is one person attached to a party, reduced to the fields that
// matter for reaching them.
type Contact struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

// Details aggregates a party document with its address and contacts.
// Contacts carrying a designation are internal staff assigned to the party;
// the rest are the counterparty's own people.
type Details struct {
	Party         map[string]any `json:"party"`
	Address       map[string]any `json:"address"`
	OurContacts   []Contact      `json:"our_contacts"`
	TheirContacts []Contact      `json:"their_contacts"`
}

func (t *PartyTools) GetSupplierDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.partyDetails(ctx, req, "Supplier", []string{"name", "supplier_name", "supplier_group", "country"},
		func(doc map[string]any) map[string]any {
			return map[string]any{
				"name":     doc["name"],
				"group":    doc["supplier_group"],
				"country":  doc["country"],
				"currency": doc["default_currency"],
			}
		})
}

func (t *PartyTools) GetCustomerDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.partyDetails(ctx, req, "Customer", []string{"name", "customer_name", "customer_group", "territory"},
		func(doc map[string]any) map[string]any {
			return map[string]any{
				"name":      doc["name"],
				"group":     doc["customer_group"],
				"territory": doc["territory"],
				"currency":  doc["default_currency"],
			}
		})
}

func (t *PartyTools) partyDetails(ctx context.Context, req mcp.CallToolRequest, doctype string, searchFields []string, summarize func(map[string]any) map[string]any) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	keyword := req.GetString("keyword", "")
	if name == "" && keyword == "" {
		return result.Error(&erpnext.Error{
			Kind:    erpnext.KindValidation,
			Message: `either "name" or "keyword" is required`,
		}), nil
	}

	doc, err := t.findParty(ctx, doctype, name, keyword, searchFields)
	if err != nil {
		return result.Error(err), nil
	}
	partyName, _ := doc["name"].(string)

	address, err := t.partyAddress(ctx, partyName)
	if err != nil {
		return result.Error(err), nil
	}
	ours, theirs, err := t.partyContacts(ctx, partyName)
	if err != nil {
		return result.Error(err), nil
	}

	return result.JSON(Details{
		Party:         summarize(doc),
		Address:       address,
		OurContacts:   ours,
		TheirContacts: theirs,
	}), nil
}

func (t *PartyTools) findParty(ctx context.Context, doctype, name, keyword string, searchFields []string) (map[string]any, error) {
	if name != "" {
		return t.client.GetDoc(ctx, doctype, name, nil)
	}

	matches, err := t.client.GetList(ctx, doctype, erpnext.ListOptions{
		Fields:          searchFields,
		Filters:         map[string]any{"name": []any{"like", "%" + keyword + "%"}},
		LimitPageLength: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, &erpnext.Error{
			Kind:    erpnext.KindNotFound,
			Message: fmt.Sprintf("no %s matches keyword %q", strings.ToLower(doctype), keyword),
		}
	}
	matched, _ := matches[0]["name"].(string)
	return t.client.GetDoc(ctx, doctype, matched, nil)
}

// partyAddress finds the address record whose title carries the party's
// code prefix (titles follow the "<code> address" convention).
func (t *PartyTools) partyAddress(ctx context.Context, partyName string) (map[string]any, error) {
	code := partyName
	if idx := strings.Index(partyName, " - "); idx >= 0 {
		code = partyName[:idx]
	}

	addresses, err := t.client.GetList(ctx, "Address", erpnext.ListOptions{
		Fields:          []string{"address_title", "address_line1", "city", "pincode", "phone", "fax"},
		Filters:         map[string]any{"address_title": []any{"like", "%" + code + "%"}},
		LimitPageLength: 5,
	})
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, nil
	}
	return addresses[0], nil
}

func (t *PartyTools) partyContacts(ctx context.Context, partyName string) (ours, theirs []Contact, err error) {
	contacts, err := t.client.GetList(ctx, "Contact", erpnext.ListOptions{
		Fields:          []string{"name", "first_name", "designation", "phone", "mobile_no", "email_id"},
		Filters:         []any{[]any{"Dynamic Link", "link_name", "=", partyName}},
		LimitPageLength: 50,
	})
	if err != nil {
		return nil, nil, err
	}

	ours = []Contact{}
	theirs = []Contact{}
	for _, c := range contacts {
		contact := Contact{
			Name:        firstString(c, "first_name", "name"),
			Designation: stringField(c, "designation"),
			Phone:       firstString(c, "phone", "mobile_no"),
			Email:       stringField(c, "email_id"),
		}
		if contact.Designation != "" {
			ours = append(ours, contact)
		} else {
			theirs = append(theirs, contact)
		}
	}
	return ours, theirs, nil
}

func stringField(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}

func firstString(doc map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringField(doc, key); s != "" {
			return s
		}
	}
	return ""
}
