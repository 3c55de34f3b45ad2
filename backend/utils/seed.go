package utils

import (
	"errors"
	"fmt"

	"forum/backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "123456"

// Seed loads the demo data set: two users, two courses and three
// topics. Existing rows are left untouched and topics are only created
// when the table is empty.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		student := models.Profile{Name: "ROLE_ALUNO"}
		moderator := models.Profile{Name: "ROLE_MODERADOR"}
		if err := tx.FirstOrCreate(&student, models.Profile{Name: student.Name}).Error; err != nil {
			return fmt.Errorf("seed profiles: %w", err)
		}
		if err := tx.FirstOrCreate(&moderator, models.Profile{Name: moderator.Name}).Error; err != nil {
			return fmt.Errorf("seed profiles: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed password: %w", err)
		}

		aluno, err := seedUser(tx, "Aluno", "aluno@email.com", string(hash), student)
		if err != nil {
			return err
		}
		if _, err := seedUser(tx, "Moderador", "moderador@email.com", string(hash), moderator); err != nil {
			return err
		}

		spring := models.Course{Name: "Spring Boot", Category: "Programação"}
		html := models.Course{Name: "HTML 5", Category: "Front-end"}
		for _, c := range []*models.Course{&spring, &html} {
			if err := tx.Where(models.Course{Name: c.Name}).Attrs(models.Course{Category: c.Category}).
				FirstOrCreate(c).Error; err != nil {
				return fmt.Errorf("seed courses: %w", err)
			}
		}

		var count int64
		if err := tx.Model(&models.Topic{}).Count(&count).Error; err != nil {
			return fmt.Errorf("seed topics: %w", err)
		}
		if count > 0 {
			return nil
		}

		topics := []models.Topic{
			{Title: "Dúvida", Message: "Erro ao criar projeto", Status: models.StatusUnanswered, AuthorID: &aluno.ID, CourseID: spring.ID},
			{Title: "Dúvida 2", Message: "Projeto não compila", Status: models.StatusUnanswered, AuthorID: &aluno.ID, CourseID: spring.ID},
			{Title: "Dúvida 3", Message: "Tag HTML", Status: models.StatusUnanswered, AuthorID: &aluno.ID, CourseID: html.ID},
		}
		if err := tx.Create(&topics).Error; err != nil {
			return fmt.Errorf("seed topics: %w", err)
		}
		return nil
	})
}

func seedUser(tx *gorm.DB, name, email, hash string, profile models.Profile) (*models.User, error) {
	var user models.User
	err := tx.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("seed users: %w", err)
	}

	user = models.User{Name: name, Email: email, Password: hash, Profiles: []models.Profile{profile}}
	if err := tx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return &user, nil
}
