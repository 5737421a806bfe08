package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// Department model. TotalSeats is the admission capacity; seat availability
// is always derived by counting enrolled students, never cached on the row.
type Department struct {
	BaseModel
	Name       string `json:"name" gorm:"size:255;not null"`
	Code       string `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Head       string `json:"head" gorm:"size:200"`
	Phone      string `json:"phone" gorm:"size:20"`
	TotalSeats int    `json:"total_seats" gorm:"not null;default:0"`
	Active     bool   `json:"active" gorm:"default:true"`

	// Relationships
	Users        []User       `json:"users,omitempty" gorm:"foreignKey:DepartmentID"`
	Students     []Student    `json:"students,omitempty" gorm:"foreignKey:DepartmentID"`
	Specialities []Speciality `json:"specialities,omitempty" gorm:"foreignKey:DepartmentID"`
}

// Speciality is a course/stream inside a department. The five fee template
// fields are copied onto new students of this speciality at admission time.
type Speciality struct {
	BaseModel
	DepartmentID  uint   `json:"department_id" gorm:"not null"`
	Name          string `json:"name" gorm:"size:255;not null"`
	Code          string `json:"code" gorm:"size:100;uniqueIndex"`
	DurationYears int    `json:"duration_years" gorm:"default:4"`
	Active        bool   `json:"active" gorm:"default:true"`

	// Default fee structure applied to new students (integer currency units)
	TuitionFee       int `json:"tuition_fee" gorm:"not null;default:0"`
	HostelFee        int `json:"hostel_fee" gorm:"not null;default:0"`
	SecurityFee      int `json:"security_fee" gorm:"not null;default:0"`
	ACCharge         int `json:"ac_charge" gorm:"not null;default:0"`
	MiscellaneousFee int `json:"miscellaneous_fee" gorm:"not null;default:0"`

	// Relationships
	Department Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
}

// User model (dashboard accounts)
type User struct {
	BaseModel
	Username             string     `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password             string     `json:"-" gorm:"size:255;not null"`
	Email                string     `json:"email" gorm:"size:255;uniqueIndex"`
	Phone                string     `json:"phone" gorm:"size:20"`
	Role                 string     `json:"role" gorm:"size:50;not null;default:'clerk';type:enum('owner','admin','accountant','clerk')"` // owner, admin, accountant, clerk
	DepartmentID         uint       `json:"department_id"`
	Status               string     `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"` // active, inactive, suspended
	Avatar               string     `json:"avatar" gorm:"size:500"`
	PasswordResetToken   string     `json:"-" gorm:"size:255"`
	PasswordResetExpires *time.Time `json:"-"`
	PasswordResetByAdmin bool       `json:"-" gorm:"default:false"`

	// Relationships
	Department Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
}

// Student admission record. The five fee components form the student's fixed
// fee structure: set at admission, changed only through the explicit edit
// endpoint, never recomputed from payments.
type Student struct {
	BaseModel
	RollNo         string     `json:"roll_no" gorm:"size:50;uniqueIndex"`
	FirstName      string     `json:"first_name" gorm:"size:100;not null"`
	LastName       string     `json:"last_name" gorm:"size:100"`
	FatherName     string     `json:"father_name" gorm:"size:200"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Gender         string     `json:"gender" gorm:"size:20"`
	Phone          string     `json:"phone" gorm:"size:20"`
	Email          string     `json:"email" gorm:"size:255"`
	Address        string     `json:"address" gorm:"size:500"`
	DepartmentID   uint       `json:"department_id" gorm:"not null;index"`
	SpecialityID   uint       `json:"speciality_id" gorm:"index"`
	Session        string     `json:"session" gorm:"size:50"` // e.g. 2025-2029
	HostelResident bool       `json:"hostel_resident" gorm:"default:false"`
	Status         string     `json:"status" gorm:"size:50;not null;default:'enrolled';type:enum('enrolled','graduated','withdrawn','suspended')"` // enrolled, graduated, withdrawn, suspended

	// Fixed fee structure (integer currency units)
	TuitionFee       int `json:"tuition_fee" gorm:"not null;default:0"`
	HostelFee        int `json:"hostel_fee" gorm:"not null;default:0"`
	SecurityFee      int `json:"security_fee" gorm:"not null;default:0"`
	ACCharge         int `json:"ac_charge" gorm:"not null;default:0"`
	MiscellaneousFee int `json:"miscellaneous_fee" gorm:"not null;default:0"`

	// Relationships
	Department Department      `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	Speciality Speciality      `json:"speciality,omitempty" gorm:"foreignKey:SpecialityID"`
	Payments   []PaymentRecord `json:"payments,omitempty" gorm:"foreignKey:StudentID"`
}

// TotalFee returns the sum of the five fee components.
func (s *Student) TotalFee() int {
	return s.TuitionFee + s.HostelFee + s.SecurityFee + s.ACCharge + s.MiscellaneousFee
}

// PaymentRecord is one discrete fee transaction in a student's ledger.
// Records are append-mostly: immutable after creation except the status
// transition to paid through the settle endpoint.
type PaymentRecord struct {
	BaseModel
	StudentID     uint       `json:"student_id" gorm:"not null;index"`
	FeeType       string     `json:"fee_type" gorm:"size:50;not null;index"` // Tuition Fee, Hostel Fee, Security Fee, AC Charge, Miscellaneous Fee, Total fee, Fine
	Amount        int        `json:"amount" gorm:"not null"`
	PaidAmount    int        `json:"paid_amount" gorm:"not null;default:0"`
	Status        string     `json:"status" gorm:"size:50;not null;default:'pending';index;type:enum('paid','pending','partial','overdue')"` // paid, pending, partial, overdue
	DueDate       *time.Time `json:"due_date"`
	PaidDate      *time.Time `json:"paid_date"`
	PaymentMethod string     `json:"payment_method" gorm:"size:50"` // cash, cheque, online, card
	ReceiptNo     string     `json:"receipt_no" gorm:"size:100;uniqueIndex"`
	TransactionID string     `json:"transaction_id" gorm:"size:100"`
	ChequeNo      string     `json:"cheque_no" gorm:"size:100"`
	BankName      string     `json:"bank_name" gorm:"size:200"`
	Remarks       string     `json:"remarks" gorm:"type:text"`
	CollectedBy   uint       `json:"collected_by"`

	// Relationships
	Student   Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Collector User    `json:"collector,omitempty" gorm:"foreignKey:CollectedBy"`
}

// Employee model (staff directory for the admin screens)
type Employee struct {
	BaseModel
	FirstName    string     `json:"first_name" gorm:"size:100;not null"`
	LastName     string     `json:"last_name" gorm:"size:100"`
	Designation  string     `json:"designation" gorm:"size:100"`
	DepartmentID uint       `json:"department_id" gorm:"index"`
	Phone        string     `json:"phone" gorm:"size:20"`
	Email        string     `json:"email" gorm:"size:255;uniqueIndex"`
	Salary       int        `json:"salary"`
	JoinedAt     *time.Time `json:"joined_at"`
	Active       bool       `json:"active" gorm:"default:true"`

	// Relationships
	Department Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model (in-app records only; delivery channels are out of scope)
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"` // info, warning, error, success
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// ReportArchive tracks fee reports uploaded to S3
type ReportArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	PeriodStart time.Time `json:"period_start" gorm:"not null"`
	PeriodEnd   time.Time `json:"period_end" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"` // pending, completed, failed
	Error       string    `json:"error" gorm:"type:text"`
}
