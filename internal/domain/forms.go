// Package domain defines the persistence models for claim case files. The
// form models in this file carry a `form` struct tag that declares how each
// column takes part in partial upserts (see schema.go).
package domain

import "time"

// AccidentClaim is the accident report and document checklist for a claim.
// At most one row exists per claim.
type AccidentClaim struct {
	ID      uint   `json:"-" gorm:"primaryKey"`
	ClaimID string `json:"claim_id" gorm:"column:claim_id;type:varchar(64);not null;uniqueIndex" form:"id,owner,conflict"`

	// Document checklist
	ChecklistVD       *bool `json:"checklist_v.d" gorm:"column:checklist_vd" form:"flag"`
	ChecklistPI       *bool `json:"checklist_pi" gorm:"column:checklist_pi" form:"flag"`
	ChecklistDVLA     *bool `json:"checklist_dvla" gorm:"column:checklist_dvla" form:"flag"`
	ChecklistBadge    *bool `json:"checklist_badge" gorm:"column:checklist_badge" form:"flag"`
	ChecklistRecovery *bool `json:"checklist_recovery" gorm:"column:checklist_recovery" form:"flag"`
	ChecklistHire     *bool `json:"checklist_hire" gorm:"column:checklist_hire" form:"flag"`
	ChecklistNINo     *bool `json:"checklist_ni_no" gorm:"column:checklist_ni_no" form:"flag"`
	ChecklistStorage  *bool `json:"checklist_storage" gorm:"column:checklist_storage" form:"flag"`
	ChecklistPlate    *bool `json:"checklist_plate" gorm:"column:checklist_plate" form:"flag"`
	ChecklistLicence  *bool `json:"checklist_licence" gorm:"column:checklist_licence" form:"flag"`
	ChecklistLogbook  *bool `json:"checklist_logbook" gorm:"column:checklist_logbook" form:"flag"`

	// Accident
	DateOfClaim         *string `json:"date_of_claim" gorm:"column:date_of_claim" form:"date"`
	AccidentDate        *string `json:"accident_date" gorm:"column:accident_date" form:"date"`
	AccidentTime        *string `json:"accident_time" gorm:"column:accident_time" form:"date"`
	AccidentLocation    *string `json:"accident_location" gorm:"column:accident_location" form:"text"`
	AccidentDescription *string `json:"accident_description" gorm:"column:accident_description" form:"text"`

	// Owner
	OwnerFullName   *string `json:"owner_full_name" gorm:"column:owner_full_name" form:"text"`
	OwnerEmail      *string `json:"owner_email" gorm:"column:owner_email" form:"text"`
	OwnerTelephone  *string `json:"owner_telephone" gorm:"column:owner_telephone" form:"text"`
	OwnerAddress    *string `json:"owner_address" gorm:"column:owner_address" form:"text"`
	OwnerPostcode   *string `json:"owner_postcode" gorm:"column:owner_postcode" form:"text"`
	OwnerDOB        *string `json:"owner_dob" gorm:"column:owner_dob" form:"date"`
	OwnerNINumber   *string `json:"owner_ni_number" gorm:"column:owner_ni_number" form:"text"`
	OwnerOccupation *string `json:"owner_occupation" gorm:"column:owner_occupation" form:"text"`

	// Driver
	DriverFullName   *string `json:"driver_full_name" gorm:"column:driver_full_name" form:"text"`
	DriverEmail      *string `json:"driver_email" gorm:"column:driver_email" form:"text"`
	DriverTelephone  *string `json:"driver_telephone" gorm:"column:driver_telephone" form:"text"`
	DriverAddress    *string `json:"driver_address" gorm:"column:driver_address" form:"text"`
	DriverPostcode   *string `json:"driver_postcode" gorm:"column:driver_postcode" form:"text"`
	DriverDOB        *string `json:"driver_dob" gorm:"column:driver_dob" form:"date"`
	DriverNINumber   *string `json:"driver_ni_number" gorm:"column:driver_ni_number" form:"text"`
	DriverOccupation *string `json:"driver_occupation" gorm:"column:driver_occupation" form:"text"`

	// Client vehicle and policy
	ClientVehicleMake  *string `json:"client_vehicle_make" gorm:"column:client_vehicle_make" form:"text"`
	ClientVehicleModel *string `json:"client_vehicle_model" gorm:"column:client_vehicle_model" form:"text"`
	ClientRegistration *string `json:"client_registration" gorm:"column:client_registration" form:"text"`
	ClientPolicyNo     *string `json:"client_policy_no" gorm:"column:client_policy_no" form:"text"`
	ClientCoverType    *string `json:"client_cover_type" gorm:"column:client_cover_type" form:"text"`
	ClientPolicyHolder *string `json:"client_policy_holder" gorm:"column:client_policy_holder" form:"text"`

	// Third party
	ThirdPartyName         *string `json:"third_party_name" gorm:"column:third_party_name" form:"text"`
	ThirdPartyEmail        *string `json:"third_party_email" gorm:"column:third_party_email" form:"text"`
	ThirdPartyTelephone    *string `json:"third_party_telephone" gorm:"column:third_party_telephone" form:"text"`
	ThirdPartyAddress      *string `json:"third_party_address" gorm:"column:third_party_address" form:"text"`
	ThirdPartyPostcode     *string `json:"third_party_postcode" gorm:"column:third_party_postcode" form:"text"`
	ThirdPartyDOB          *string `json:"third_party_dob" gorm:"column:third_party_dob" form:"date"`
	ThirdPartyNINumber     *string `json:"third_party_ni_number" gorm:"column:third_party_ni_number" form:"text"`
	ThirdPartyOccupation   *string `json:"third_party_occupation" gorm:"column:third_party_occupation" form:"text"`
	ThirdPartyVehicleMake  *string `json:"third_party_vehicle_make" gorm:"column:third_party_vehicle_make" form:"text"`
	ThirdPartyVehicleModel *string `json:"third_party_vehicle_model" gorm:"column:third_party_vehicle_model" form:"text"`
	ThirdPartyRegistration *string `json:"third_party_registration" gorm:"column:third_party_registration" form:"text"`
	ThirdPartyPolicyNo     *string `json:"third_party_policy_no" gorm:"column:third_party_policy_no" form:"text"`
	ThirdPartyPolicyHolder *string `json:"third_party_policy_holder" gorm:"column:third_party_policy_holder" form:"text"`

	// Circumstances
	FaultOpinion      *string  `json:"fault_opinion" gorm:"column:fault_opinion" form:"text"`
	FaultReason       *string  `json:"fault_reason" gorm:"column:fault_reason" form:"text"`
	RoadConditions    *string  `json:"road_conditions" gorm:"column:road_conditions" form:"text"`
	WeatherConditions *string  `json:"weather_conditions" gorm:"column:weather_conditions" form:"text"`
	Witness1Name      *string  `json:"witness1_name" gorm:"column:witness1_name" form:"text"`
	Witness1Address   *string  `json:"witness1_address" gorm:"column:witness1_address" form:"text"`
	Witness1Postcode  *string  `json:"witness1_postcode" gorm:"column:witness1_postcode" form:"text"`
	Witness1Telephone *string  `json:"witness1_telephone" gorm:"column:witness1_telephone" form:"text"`
	Witness2Name      *string  `json:"witness2_name" gorm:"column:witness2_name" form:"text"`
	Witness2Address   *string  `json:"witness2_address" gorm:"column:witness2_address" form:"text"`
	Witness2Postcode  *string  `json:"witness2_postcode" gorm:"column:witness2_postcode" form:"text"`
	Witness2Telephone *string  `json:"witness2_telephone" gorm:"column:witness2_telephone" form:"text"`
	LossOfEarnings    *float64 `json:"loss_of_earnings" gorm:"column:loss_of_earnings" form:"numeric"`
	EmployerDetails   *string  `json:"employer_details" gorm:"column:employer_details" form:"text"`

	// Declaration
	PrintName              *string `json:"print_name" gorm:"column:print_name" form:"text"`
	DeclarationDate        *string `json:"declaration_date" gorm:"column:declaration_date" form:"date"`
	ClientSignature        *string `json:"client_signature" gorm:"column:client_signature" form:"media"`
	CircumstanceDrawing    *string `json:"circumstance_drawing" gorm:"column:circumstance_drawing" form:"media"`
	DirectionBeforeDrawing *string `json:"direction_before_drawing" gorm:"column:direction_before_drawing" form:"media"`
	DirectionAfterDrawing  *string `json:"direction_after_drawing" gorm:"column:direction_after_drawing" form:"media"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName implements the GORM tabler interface.
func (AccidentClaim) TableName() string { return "accident_claims" }

// PreInspectionForm records one vehicle condition inspection. A claim may
// own any number of inspections, each addressed by its InspectionID.
type PreInspectionForm struct {
	ID uint `json:"-" gorm:"primaryKey"`

	Condition1            *string `json:"condition_1" gorm:"column:condition_1" form:"text"`
	Condition2            *string `json:"condition_2" gorm:"column:condition_2" form:"text"`
	Condition3            *string `json:"condition_3" gorm:"column:condition_3" form:"text"`
	Condition4            *string `json:"condition_4" gorm:"column:condition_4" form:"text"`
	Condition5            *string `json:"condition_5" gorm:"column:condition_5" form:"text"`
	Condition6            *string `json:"condition_6" gorm:"column:condition_6" form:"text"`
	Condition7            *string `json:"condition_7" gorm:"column:condition_7" form:"text"`
	Condition8            *string `json:"condition_8" gorm:"column:condition_8" form:"text"`
	Condition9            *string `json:"condition_9" gorm:"column:condition_9" form:"text"`
	Condition10           *string `json:"condition_10" gorm:"column:condition_10" form:"text"`
	Condition11           *string `json:"condition_11" gorm:"column:condition_11" form:"text"`
	Condition12           *string `json:"condition_12" gorm:"column:condition_12" form:"text"`
	Condition13           *string `json:"condition_13" gorm:"column:condition_13" form:"text"`
	Condition14           *string `json:"condition_14" gorm:"column:condition_14" form:"text"`
	Condition15           *string `json:"condition_15" gorm:"column:condition_15" form:"text"`
	Condition16           *string `json:"condition_16" gorm:"column:condition_16" form:"text"`
	Condition17           *string `json:"condition_17" gorm:"column:condition_17" form:"text"`
	Condition18           *string `json:"condition_18" gorm:"column:condition_18" form:"text"`
	Condition19           *string `json:"condition_19" gorm:"column:condition_19" form:"text"`
	Condition20           *string `json:"condition_20" gorm:"column:condition_20" form:"text"`
	Condition21           *string `json:"condition_21" gorm:"column:condition_21" form:"text"`
	Condition22           *string `json:"condition_22" gorm:"column:condition_22" form:"text"`
	Condition23           *string `json:"condition_23" gorm:"column:condition_23" form:"text"`
	Condition24           *string `json:"condition_24" gorm:"column:condition_24" form:"text"`
	Condition25           *string `json:"condition_25" gorm:"column:condition_25" form:"text"`
	Condition26           *string `json:"condition_26" gorm:"column:condition_26" form:"text"`
	Condition27           *string `json:"condition_27" gorm:"column:condition_27" form:"text"`
	Condition28           *string `json:"condition_28" gorm:"column:condition_28" form:"text"`
	Condition29           *string `json:"condition_29" gorm:"column:condition_29" form:"text"`
	Condition30           *string `json:"condition_30" gorm:"column:condition_30" form:"text"`
	Date                  *string `json:"date" gorm:"column:date" form:"date"`
	Customer              *string `json:"customer" gorm:"column:customer" form:"text"`
	Detailer              *string `json:"detailer" gorm:"column:detailer" form:"text"`
	OrderNumber           *string `json:"order_number" gorm:"column:order_number" form:"text"`
	Year                  *string `json:"year" gorm:"column:year" form:"text"`
	Make                  *string `json:"make" gorm:"column:make" form:"text"`
	Model                 *string `json:"model" gorm:"column:model" form:"text"`
	Notes                 *string `json:"notes" gorm:"column:notes" form:"text"`
	Recommendations       *string `json:"recommendations" gorm:"column:recommendations" form:"text"`
	CustomerSignature     *string `json:"customer_signature" gorm:"column:customer_signature" form:"media"`
	DetailerSignature     *string `json:"detailer_signature" gorm:"column:detailer_signature" form:"media"`
	BaseVehicleImage      *string `json:"base_vehicle_image" gorm:"column:base_vehicle_image" form:"media"`
	AnnotatedVehicleImage *string `json:"annotated_vehicle_image" gorm:"column:annotated_vehicle_image" form:"media"`

	ClaimID      string `json:"claim_id"      gorm:"column:claim_id;type:varchar(64);not null;index" form:"id,owner"`
	InspectionID string `json:"inspection_id" gorm:"column:inspection_id;type:varchar(64);not null;uniqueIndex" form:"id,conflict"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName implements the GORM tabler interface.
func (PreInspectionForm) TableName() string { return "pre_inspection_forms" }

// CancellationForm is the hire cancellation notice for a claim.
type CancellationForm struct {
	ID uint `json:"-" gorm:"primaryKey"`

	Name                  *string `json:"name" gorm:"column:name" form:"text"`
	Address               *string `json:"address" gorm:"column:address" form:"text"`
	Postcode              *string `json:"postcode" gorm:"column:postcode" form:"text"`
	Email                 *string `json:"email" gorm:"column:email" form:"text"`
	CancellationDate      *string `json:"cancellation_date" gorm:"column:cancellation_date" form:"date"`
	CancellationSignature *string `json:"cancellation_signature" gorm:"column:cancellation_signature" form:"media"`

	ClaimID string `json:"claim_id" gorm:"column:claim_id;type:varchar(64);not null;uniqueIndex" form:"id,owner,conflict"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName implements the GORM tabler interface.
func (CancellationForm) TableName() string { return "cancellation_forms" }

// StorageForm is the vehicle storage invoice for a claim.
type StorageForm struct {
	ID uint `json:"-" gorm:"primaryKey"`

	Name               *string `json:"name" gorm:"column:name" form:"text"`
	Postcode           *string `json:"postcode" gorm:"column:postcode" form:"text"`
	Address1           *string `json:"address1" gorm:"column:address1" form:"text"`
	Address2           *string `json:"address2" gorm:"column:address2" form:"text"`
	VehicleMake        *string `json:"vehicle_make" gorm:"column:vehicle_make" form:"text"`
	VehicleModel       *string `json:"vehicle_model" gorm:"column:vehicle_model" form:"text"`
	RegistrationNumber *string `json:"registration_number" gorm:"column:registration_number" form:"text"`
	DateOfRecovery     *string `json:"date_of_recovery" gorm:"column:date_of_recovery" form:"date"`
	StorageStartDate   *string `json:"storage_start_date" gorm:"column:storage_start_date" form:"date"`
	StorageEndDate     *string `json:"storage_end_date" gorm:"column:storage_end_date" form:"date"`

	// Charges
	NumberOfDays       *float64 `json:"number_of_days" gorm:"column:number_of_days" form:"numeric"`
	ChargesPerDay      *float64 `json:"charges_per_day" gorm:"column:charges_per_day" form:"numeric"`
	TotalStorageCharge *float64 `json:"total_storage_charge" gorm:"column:total_storage_charge" form:"numeric"`
	RecoveryCharge     *float64 `json:"recovery_charge" gorm:"column:recovery_charge" form:"numeric"`
	Subtotal           *float64 `json:"subtotal" gorm:"column:subtotal" form:"numeric"`
	VATAmount          *float64 `json:"vat_amount" gorm:"column:vat_amount" form:"numeric"`
	InvoiceTotal       *float64 `json:"invoice_total" gorm:"column:invoice_total" form:"numeric"`
	ClientDate         *string  `json:"client_date" gorm:"column:client_date" form:"date"`
	OwnerDate          *string  `json:"owner_date" gorm:"column:owner_date" form:"date"`
	ClientSignature    *string  `json:"client_signature" gorm:"column:client_signature" form:"media"`
	OwnerSignature     *string  `json:"owner_signature" gorm:"column:owner_signature" form:"media"`

	ClaimID string `json:"claim_id" gorm:"column:claim_id;type:varchar(64);not null;uniqueIndex" form:"id,owner,conflict"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName implements the GORM tabler interface.
func (StorageForm) TableName() string { return "storage_forms" }

// RentalAgreement is the replacement vehicle hire agreement for a claim.
type RentalAgreement struct {
	ID      uint   `json:"rental_agreement_id" gorm:"column:rental_agreement_id;primaryKey" form:"id"`
	ClaimID string `json:"claim_id" gorm:"column:claim_id;type:varchar(64);not null;uniqueIndex" form:"id,owner,conflict"`

	// Hirer
	HirerName            *string `json:"hirer_name" gorm:"column:hirer_name" form:"text"`
	Title                *string `json:"title" gorm:"column:title" form:"text"`
	PermanentAddress     *string `json:"permanent_address" gorm:"column:permanent_address" form:"text"`
	AdditionalDriverName *string `json:"additional_driver_name" gorm:"column:additional_driver_name" form:"text"`
	LicenceNo            *string `json:"licence_no" gorm:"column:licence_no" form:"text"`
	DateIssued           *string `json:"date_issued" gorm:"column:date_issued" form:"date"`
	ExpiryDate           *string `json:"expiry_date" gorm:"column:expiry_date" form:"date"`
	DOB                  *string `json:"dob" gorm:"column:dob" form:"date"`
	DateTestPassed       *string `json:"date_test_passed" gorm:"column:date_test_passed" form:"date"`
	Occupation           *string `json:"occupation" gorm:"column:occupation" form:"text"`

	// Additional driver licence
	NewLicenceNo      *string `json:"new_licence_no" gorm:"column:new_licence_no" form:"text"`
	NewDateIssued     *string `json:"new_date_issued" gorm:"column:new_date_issued" form:"date"`
	NewExpiryDate     *string `json:"new_expiry_date" gorm:"column:new_expiry_date" form:"date"`
	NewDOB            *string `json:"new_dob" gorm:"column:new_dob" form:"date"`
	NewDateTestPassed *string `json:"new_date_test_passed" gorm:"column:new_date_test_passed" form:"date"`
	NewOccupation     *string `json:"new_occupation" gorm:"column:new_occupation" form:"text"`

	// Rates
	DailyRate        *float64 `json:"daily_rate" gorm:"column:daily_rate" form:"numeric"`
	PolicyExcess     *float64 `json:"policy_excess" gorm:"column:policy_excess" form:"numeric"`
	Deposit          *float64 `json:"deposit" gorm:"column:deposit" form:"numeric"`
	RefuellingCharge *float64 `json:"refuelling_charge" gorm:"column:refuelling_charge" form:"numeric"`

	// Insurance
	InsuranceCompany      *string `json:"insurance_company" gorm:"column:insurance_company" form:"text"`
	PolicyNo              *string `json:"policy_no" gorm:"column:policy_no" form:"text"`
	InsuranceDates        *string `json:"insurance_dates" gorm:"column:insurance_dates" form:"text"`
	OwnInsuranceConfirm   *string `json:"own_insurance_confirm" gorm:"column:own_insurance_confirm" form:"text,default=No"`
	InsuranceDate         *string `json:"insurance_date" gorm:"column:insurance_date" form:"date"`
	InsuranceTime         *string `json:"insurance_time" gorm:"column:insurance_time" form:"date"`
	MotoringOffence3yrs   *string `json:"motoring_offence_3yrs" gorm:"column:motoring_offence_3yrs" form:"text"`
	Disqualified5yrs      *string `json:"disqualified_5yrs" gorm:"column:disqualified_5yrs" form:"text"`
	Accident3yrs          *string `json:"accident_3yrs" gorm:"column:accident_3yrs" form:"text"`
	InsuranceDeclined5yrs *string `json:"insurance_declined_5yrs" gorm:"column:insurance_declined_5yrs" form:"text"`
	DishonestyConviction  *string `json:"dishonesty_conviction" gorm:"column:dishonesty_conviction" form:"text"`
	MedicalCondition1     *string `json:"medical_condition1" gorm:"column:medical_condition1" form:"text"`
	MedicalCondition2     *string `json:"medical_condition2" gorm:"column:medical_condition2" form:"text"`
	MedicalDetails        *string `json:"medical_details" gorm:"column:medical_details" form:"text"`
	AdditionalDriverAuth  *string `json:"additional_driver_auth" gorm:"column:additional_driver_auth" form:"text"`

	// Hire vehicle
	HireVehicleReg     *string `json:"hire_vehicle_reg" gorm:"column:hire_vehicle_reg" form:"text"`
	HireVehicleMake    *string `json:"hire_vehicle_make" gorm:"column:hire_vehicle_make" form:"text"`
	HireVehicleModel   *string `json:"hire_vehicle_model" gorm:"column:hire_vehicle_model" form:"text"`
	HireVehicleGroup   *string `json:"hire_vehicle_group" gorm:"column:hire_vehicle_group" form:"text"`
	HireVehicleDateOut *string `json:"hire_vehicle_date_out" gorm:"column:hire_vehicle_date_out" form:"date"`
	HireVehicleDateIn  *string `json:"hire_vehicle_date_in" gorm:"column:hire_vehicle_date_in" form:"date"`
	HireVehicleFuelOut *string `json:"hire_vehicle_fuel_out" gorm:"column:hire_vehicle_fuel_out" form:"text"`
	HireVehicleFuelIn  *string `json:"hire_vehicle_fuel_in" gorm:"column:hire_vehicle_fuel_in" form:"text"`

	// Change of vehicle
	ChangeVehicleReg     *string `json:"change_vehicle_reg" gorm:"column:change_vehicle_reg" form:"text"`
	ChangeVehicleMake    *string `json:"change_vehicle_make" gorm:"column:change_vehicle_make" form:"text"`
	ChangeVehicleModel   *string `json:"change_vehicle_model" gorm:"column:change_vehicle_model" form:"text"`
	ChangeVehicleGroup   *string `json:"change_vehicle_group" gorm:"column:change_vehicle_group" form:"text"`
	ChangeVehicleDateOut *string `json:"change_vehicle_date_out" gorm:"column:change_vehicle_date_out" form:"date"`
	ChangeVehicleDateIn  *string `json:"change_vehicle_date_in" gorm:"column:change_vehicle_date_in" form:"date"`
	ChangeVehicleFuelOut *string `json:"change_vehicle_fuel_out" gorm:"column:change_vehicle_fuel_out" form:"text"`
	ChangeVehicleFuelIn  *string `json:"change_vehicle_fuel_in" gorm:"column:change_vehicle_fuel_in" form:"text"`

	// Charges
	AdminFee        *float64 `json:"admin_fee" gorm:"column:admin_fee" form:"numeric"`
	DeliveryCharge  *float64 `json:"delivery_charge" gorm:"column:delivery_charge" form:"numeric"`
	CDWPerDay       *float64 `json:"cdw_per_day" gorm:"column:cdw_per_day" form:"numeric"`
	DaysOut         *float64 `json:"days_out" gorm:"column:days_out" form:"numeric"`
	DaysIn          *float64 `json:"days_in" gorm:"column:days_in" form:"numeric"`
	TotalDays       *float64 `json:"total_days" gorm:"column:total_days" form:"numeric"`
	RatePerDay      *float64 `json:"rate_per_day" gorm:"column:rate_per_day" form:"numeric"`
	RefuellingTotal *float64 `json:"refuelling_total" gorm:"column:refuelling_total" form:"numeric"`
	Subtotal        *float64 `json:"subtotal" gorm:"column:subtotal" form:"numeric"`
	VAT             *float64 `json:"vat" gorm:"column:vat" form:"numeric"`
	TotalCost       *float64 `json:"total_cost" gorm:"column:total_cost" form:"numeric"`

	// Declarations
	DeclarationDate         *string `json:"declaration_date" gorm:"column:declaration_date" form:"date"`
	LiabilityDate           *string `json:"liability_date" gorm:"column:liability_date" form:"date"`
	HirerSignatureTerms     *string `json:"hirer_signature_terms" gorm:"column:hirer_signature_terms" form:"media"`
	CompanySignature        *string `json:"company_signature" gorm:"column:company_signature" form:"media"`
	HirerSignatureInsurance *string `json:"hirer_signature_insurance" gorm:"column:hirer_signature_insurance" form:"media"`
	DeclarationSignature    *string `json:"declaration_signature" gorm:"column:declaration_signature" form:"media"`
	LiabilitySignature      *string `json:"liability_signature" gorm:"column:liability_signature" form:"media"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName implements the GORM tabler interface.
func (RentalAgreement) TableName() string { return "rental_agreements" }

// FormKind names one of the claim form types.
type FormKind string

const (
	FormAccidentClaim FormKind = "accident_claim"
	FormPreInspection FormKind = "pre_inspection"
	FormCancellation  FormKind = "cancellation"
	FormStorage       FormKind = "storage"
	FormRental        FormKind = "rental_agreement"
)

var formSchemas = map[FormKind]*Schema{
	FormAccidentClaim: MustParse(&AccidentClaim{}),
	FormPreInspection: MustParse(&PreInspectionForm{}),
	FormCancellation:  MustParse(&CancellationForm{}),
	FormStorage:       MustParse(&StorageForm{}),
	FormRental:        MustParse(&RentalAgreement{}),
}

// SchemaFor returns the parsed schema of a form kind.
func SchemaFor(k FormKind) (*Schema, bool) {
	s, ok := formSchemas[k]
	return s, ok
}

// Label is the human name used in messages ("rental agreement").
func (k FormKind) Label() string {
	switch k {
	case FormAccidentClaim:
		return "accident claim"
	case FormPreInspection:
		return "pre-inspection form"
	case FormCancellation:
		return "cancellation form"
	case FormStorage:
		return "storage form"
	case FormRental:
		return "rental agreement"
	}
	return string(k)
}

// FormModels lists every form model for AutoMigrate.
func FormModels() []any {
	return []any{
		&AccidentClaim{},
		&PreInspectionForm{},
		&CancellationForm{},
		&StorageForm{},
		&RentalAgreement{},
	}
}
