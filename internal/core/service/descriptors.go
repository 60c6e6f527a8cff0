package service

import (
	"github.com/ruetfest/festcrm/internal/core/domain"
	"github.com/ruetfest/festcrm/internal/core/ports"
	"github.com/ruetfest/festcrm/internal/export"
)

// contactRoles are the role tags a sponsor contact may carry, in export
// column order.
var contactRoles = []string{"CEO", "CTO", "Brand Manager", "Sponsor Manager", "HR"}

// Descriptors returns the engine configuration for every managed entity
// type. The router instantiates one repository, service and handler per
// entry.
func Descriptors() []ports.Descriptor {
	return []ports.Descriptor{
		{
			Type:             domain.EntitySponsor,
			Slug:             "sponsors",
			Collection:       "sponsors",
			Required:         []string{"company_name", "website", "category"},
			Searchable:       []string{"company_name", "website"},
			DuplicateKeys:    []string{"company_name"},
			SearchProjection: []string{"company_name", "previous_sponsor", "website"},
			UpdateRequired:   []string{"website"},
			Export: export.Mapping{
				export.Field{Header: "Company Name", Key: "company_name"},
				export.Field{Header: "Website", Key: "website"},
				export.Field{Header: "Previous Sponsor", Key: "previous_sponsor"},
				export.Field{Header: "Category", Key: "category"},
				export.Field{Header: "Other Category", Key: "other_category"},
				export.RoleGroup{Key: "contacts", Roles: contactRoles},
				export.IndexedGroup{Key: "ruetians", Label: "Ruetian", Max: 5},
				export.Timestamp{Header: "Created At", Key: "created_at"},
				export.Field{Header: "Created By", Key: "created_by"},
			},
			ExportFileName: "sponsors_list.xlsx",
			SheetName:      "Sponsors",
		},
		{
			Type:             domain.EntityAlumnus,
			Slug:             "alumni",
			Collection:       "alumni",
			Required:         []string{"ruetian_name", "ruetian_mail"},
			Searchable:       []string{"ruetian_name", "ruetian_mail", "ruetian_linkedin"},
			DuplicateKeys:    []string{"ruetian_mail"},
			SearchProjection: []string{"ruetian_name", "ruetian_mail", "ruetian_linkedin"},
			Export: export.Mapping{
				export.Field{Header: "Ruetian Name", Key: "ruetian_name"},
				export.Field{Header: "Ruetian Phone", Key: "ruetian_phone"},
				export.Field{Header: "Ruetian Mail", Key: "ruetian_mail"},
				export.Field{Header: "Ruetian LinkedIn", Key: "ruetian_linkedin"},
				export.Timestamp{Header: "Created At", Key: "created_at"},
				export.Field{Header: "Created By", Key: "created_by"},
			},
			ExportFileName: "alumni_list.xlsx",
			SheetName:      "Alumni",
		},
		{
			Type:             domain.EntitySpeaker,
			Slug:             "speakers",
			Collection:       "speakers",
			Required:         []string{"name", "linkedin", "designation"},
			Searchable:       []string{"name", "mail", "linkedin", "designation"},
			DuplicateKeys:    []string{"linkedin"},
			SearchProjection: []string{"name", "mail", "linkedin", "designation"},
			Export: export.Mapping{
				export.Field{Header: "Name", Key: "name"},
				export.Field{Header: "Phone", Key: "phone"},
				export.Field{Header: "Mail", Key: "mail"},
				export.Field{Header: "LinkedIn", Key: "linkedin"},
				export.Field{Header: "Designation", Key: "designation"},
				export.Timestamp{Header: "Created At", Key: "created_at"},
				export.Field{Header: "Created By", Key: "created_by"},
			},
			ExportFileName: "speakers_list.xlsx",
			SheetName:      "Speakers",
		},
	}
}
